// parktool builds the park without a window and reports on it.
package main

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/funpark/internal/config"
	"github.com/Faultbox/funpark/internal/logger"
	"github.com/Faultbox/funpark/internal/park"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "stats":
		cmdStats(args)
	case "obj", "export":
		cmdOBJ(args)
	case "poses", "trace":
		cmdPoses(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`parktool - headless park builder

Usage:
  parktool <command> [options]

Commands:
  stats [-config f] [-yaml]                 Build the park and print statistics
  obj   [-config f] [-o file] [-node name]  Export generated meshes as Wavefront OBJ
  poses [-config f] [-step n]               Print the train pose along one lap

Examples:
  parktool stats -config park.yaml
  parktool obj -o park.obj
  parktool obj -node column -o columns.obj
  parktool poses -step 50`)
}

// commonFlags registers the flags every command shares.
func commonFlags(name string) (*flag.FlagSet, *string, *bool) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to config file")
	debug := fs.Bool("debug", false, "Enable debug logging")
	return fs, cfgPath, debug
}

// build loads the config, sets up logging on stderr and builds the park.
func build(cfgPath string, debug bool) *park.Park {
	cfg, err := config.LoadFile(cfgPath)
	if err != nil {
		fail(err)
	}
	// Output may be piped, so logs go to stderr.
	opts := logger.Options{Level: "warn", Console: true, Stderr: true}
	if debug {
		opts.Level = "debug"
	}
	if cfg.Logging.LogFile != "" {
		opts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.Setup(opts); err != nil {
		fail(err)
	}

	p, err := park.Build(cfg.Park)
	if err != nil {
		fail(err)
	}
	return p
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func cmdStats(args []string) {
	fs, cfgPath, debug := commonFlags("stats")
	asYAML := fs.Bool("yaml", false, "Print statistics as YAML")
	fs.Parse(args)

	p := build(*cfgPath, *debug)
	defer logger.Sync()
	st := p.Stats

	if *asYAML {
		out, err := yaml.Marshal(st)
		if err != nil {
			fail(err)
		}
		os.Stdout.Write(out)
		return
	}

	cs := st.Columns
	fmt.Printf("Segments:       %d\n", st.Segments)
	fmt.Printf("Track length:   %.2f\n", st.Length)
	fmt.Printf("Frames:         %d\n", st.Frames)
	fmt.Printf("Rail triangles: %d\n", st.RailTriangles)
	fmt.Printf("Tunnels:        %d\n", st.Tunnels)
	fmt.Printf("Columns:        %d of %d anchors\n", cs.Placed, cs.Anchors)
	fmt.Printf("  ambiguous:    %d\n", cs.Ambiguous)
	fmt.Printf("  inverted:     %d\n", cs.Inverted)
	fmt.Printf("  fallbacks:    %d\n", cs.Fallbacks)
	fmt.Printf("Lamps:          %d\n", st.Lamps)
	fmt.Printf("Scene nodes:    %d\n", st.Nodes)
	fmt.Printf("Build time:     %s\n", st.BuildTime)
}

func cmdOBJ(args []string) {
	fs, cfgPath, debug := commonFlags("obj")
	output := fs.String("o", "", "Output file (default stdout)")
	node := fs.String("node", "", "Only export nodes with this name")
	fs.Parse(args)

	p := build(*cfgPath, *debug)
	defer logger.Sync()

	w := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fail(err)
		}
		defer f.Close()
		w = f
	}

	st, err := park.WriteOBJ(w, p.Root, *node)
	if err != nil {
		fail(err)
	}
	fmt.Fprintf(os.Stderr, "Exported %d objects, %d vertices, %d triangles\n", st.Objects, st.Vertices, st.Triangles)
}

func cmdPoses(args []string) {
	fs, cfgPath, debug := commonFlags("poses")
	step := fs.Float64("step", 100, "Progress units between samples")
	fs.Parse(args)

	p := build(*cfgPath, *debug)
	defer logger.Sync()

	fmt.Printf("# table length %d\n", p.Driver.Len())
	fmt.Println("# progress x y z fx fy fz ux uy uz")
	for _, s := range p.Trace(float32(*step)) {
		fmt.Printf("%.1f %.3f %.3f %.3f %.4f %.4f %.4f %.4f %.4f %.4f\n",
			s.Progress,
			s.Position.X, s.Position.Y, s.Position.Z,
			s.Forward.X, s.Forward.Y, s.Forward.Z,
			s.Up.X, s.Up.Y, s.Up.Z)
	}
}
