package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/glyphrun"
	"github.com/npillmayer/glyphrun/font"
	"github.com/npillmayer/glyphrun/shape"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	"golang.org/x/text/language"
)

// tracer traces with key 'glyphrun'
func tracer() tracing.Trace {
	return tracing.Select("glyphrun")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":      "go",
		"trace.glyphrun":       "Info",
		"trace.glyphrun.shape": "Info",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "Font to load")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError) // will set the correct level later
	pterm.Info.Println("Welcome to the glyph-run CLI")
	//
	// set up REPL
	repl, err := readline.New("run > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{repl: repl}
	//
	// load font to use
	if err := intp.loadFont(*fontname); err != nil { // font name provided by flag
		tracer().Errorf(err.Error())
		os.Exit(4)
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D")
	switch *tlevel {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}
	tracer().Infof("Trace level is %s", *tlevel)
	intp.REPL() // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	fnt    *glyphrun.SFNTFont
	engine *shape.Engine
	repl   *readline.Instance
}

func (intp *Intp) loadFont(name string) error {
	if name == "" {
		return fmt.Errorf("no font given; use flag -font")
	}
	f, err := glyphrun.LoadFont(name)
	if err != nil {
		return err
	}
	var opts []shape.Option
	if !f.HasStateMachineShaping() && f.HasRuleShaping() {
		if rules, err := glyphrun.NewHarfBuzzShaper(f.Binary); err == nil {
			opts = append(opts, shape.WithRuleShaper(rules))
		}
	}
	engine, err := shape.NewEngine(f, opts...)
	if err != nil {
		return err
	}
	intp.fnt, intp.engine = f, engine
	pterm.Info.Printf("loaded font %s (backend %s)\n", f.Fontname, engine.Backend().Name())
	return nil
}

// REPL starts interactive mode. Plain input is laid out as a glyph run;
// lines starting with ':' are commands.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		if err := intp.execute(line); err != nil {
			tracer().Errorf(err.Error())
		}
	}
	pterm.Info.Println("Good bye!")
}

func (intp *Intp) execute(line string) error {
	if !strings.HasPrefix(line, ":") {
		return intp.layout(line)
	}
	arg := ""
	cmd := line
	if i := strings.IndexByte(line, ' '); i > 0 {
		cmd, arg = line[:i], strings.TrimSpace(line[i+1:])
	}
	switch cmd {
	case ":help":
		pterm.Println("<text>            lay out text as a glyph run")
		pterm.Println(":features         list available feature tags")
		pterm.Println(":glyph <gid>      textual origins of a glyph")
		pterm.Println(":script <text>    detect the dominant script")
		return nil
	case ":features":
		tags := intp.engine.Features(shape.DetectScript(arg), language.Und)
		pterm.Printf("%d features: %v\n", len(tags), tags)
		return nil
	case ":glyph":
		gid, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("glyph ID expected, got %q", arg)
		}
		origins := intp.engine.TextForGlyph(font.GlyphID(gid))
		pterm.Printf("glyph %d maps back to %q\n", gid, origins)
		return nil
	case ":script":
		pterm.Printf("dominant script is %s\n", shape.DetectScript(arg))
		return nil
	}
	return fmt.Errorf("unknown command %q; try :help", cmd)
}

func (intp *Intp) layout(text string) error {
	glyphs, err := intp.engine.Layout(text, shape.Params{})
	if err != nil {
		return err
	}
	printRun(glyphs)
	return nil
}
