package label

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hedgerow-pam/birdprep/internal/errors"
	"github.com/hedgerow-pam/birdprep/internal/labeller"
	"github.com/hedgerow-pam/birdprep/internal/output"
)

const prompt = "label> "

// repl reads one command per line and applies it to the session.
type repl struct {
	session *labeller.Session
	in      *bufio.Scanner
	out     io.Writer
}

func newREPL(session *labeller.Session, in io.Reader, out io.Writer) *repl {
	return &repl{session: session, in: bufio.NewScanner(in), out: out}
}

// run processes input until quit, end of input or cancellation.
func (r *repl) run(ctx context.Context) error {
	output.Info(r.out, `Type "help" for commands.`)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(r.out, prompt)
		if !r.in.Scan() {
			fmt.Fprintln(r.out)
			if err := r.in.Err(); err != nil {
				return errors.New(err).
					Component("label").
					Category(errors.CategoryFileIO).
					Build()
			}
			return nil
		}
		if quit := r.exec(r.in.Text()); quit {
			return nil
		}
	}
}

// exec runs one command line and reports whether the session should end.
// Errors are printed; none of them end the session.
func (r *repl) exec(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	cmd, ok := commands[name]
	if !ok {
		output.Notice(r.out, "unknown command %q, type \"help\"", name)
		return false
	}
	if cmd.quit {
		return true
	}

	if err := cmd.run(r, args); err != nil {
		if errors.IsUserInput(err) {
			output.Notice(r.out, "%s", err)
		} else {
			output.Failure(r.out, err)
		}
	}
	return false
}

type command struct {
	usage string
	help  string
	run   func(r *repl, args []string) error
	quit  bool
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"load":       {usage: "load <file.wav>", help: "load a recording and show its first chunk", run: (*repl).load},
		"csv":        {usage: "csv <file.csv>", help: "load the detection CSV of the recording for reference", run: (*repl).csv},
		"detections": {usage: "detections", help: "list the loaded detections", run: (*repl).detections},
		"chunk":      {usage: "chunk <seconds>", help: "show the chunk starting at the given time", run: (*repl).chunk},
		"next":       {usage: "next", help: "show the following chunk", run: (*repl).next},
		"prev":       {usage: "prev", help: "show the previous chunk", run: (*repl).prev},
		"box":        {usage: "box <x0> <y0> <x1> <y1>", help: "add a box from two corners in preview pixels, origin top left", run: (*repl).box},
		"boxes":      {usage: "boxes", help: "list boxes on the current chunk", run: (*repl).boxes},
		"undo":       {usage: "undo", help: "delete the last box", run: (*repl).undo},
		"clear":      {usage: "clear", help: "delete every box", run: (*repl).clear},
		"class":      {usage: "class <name|index>", help: "select the class for new boxes", run: (*repl).class},
		"classes":    {usage: "classes", help: "list classes", run: (*repl).classes},
		"play":       {usage: "play", help: "play the current chunk", run: (*repl).play},
		"stop":       {usage: "stop", help: "stop playback", run: (*repl).stop},
		"export":     {usage: "export", help: "write labels and image for the current chunk", run: (*repl).export},
		"status":     {usage: "status", help: "show the session status", run: (*repl).status},
		"help":       {usage: "help", help: "show this list", run: (*repl).help},
		"quit":       {usage: "quit", help: "end the session", quit: true},
		"exit":       {usage: "exit", help: "end the session", quit: true},
	}
}

func userInput(format string, args ...any) error {
	return errors.Newf(format, args...).
		Component("label").
		Category(errors.CategoryUserInput).
		Build()
}

func (r *repl) load(args []string) error {
	if len(args) == 0 {
		return userInput("usage: load <file.wav>")
	}
	if err := r.session.LoadAudio(strings.Join(args, " ")); err != nil {
		return err
	}
	r.printChunk()
	return nil
}

func (r *repl) csv(args []string) error {
	if len(args) == 0 {
		return userInput("usage: csv <file.csv>")
	}
	if err := r.session.LoadDetections(strings.Join(args, " ")); err != nil {
		return err
	}
	output.Info(r.out, "%d detections from %s", len(r.session.Detections().Rows), r.session.Status().CSV)
	return nil
}

func (r *repl) detections([]string) error {
	d := r.session.Detections()
	if d == nil {
		return userInput("no detection file loaded, use csv <file.csv>")
	}
	output.Info(r.out, "     %s", strings.Join(d.Header.Fields, " | "))
	for i, row := range d.Rows {
		output.Info(r.out, "%3d  %s", i+1, strings.Join(row.Fields, " | "))
	}
	return nil
}

func (r *repl) chunk(args []string) error {
	if len(args) != 1 {
		return userInput("usage: chunk <seconds>")
	}
	t, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return userInput("invalid start time %q", args[0])
	}
	return r.loadChunk(t)
}

func (r *repl) next([]string) error {
	st := r.session.Status()
	return r.loadChunk(st.Start + st.ChunkSeconds)
}

func (r *repl) prev([]string) error {
	st := r.session.Status()
	return r.loadChunk(st.Start - st.ChunkSeconds)
}

func (r *repl) loadChunk(t float64) error {
	if err := r.session.LoadChunk(t); err != nil {
		return err
	}
	r.printChunk()
	return nil
}

func (r *repl) printChunk() {
	st := r.session.Status()
	output.Info(r.out, "%s: %.2fs -> %.2fs, preview %s",
		st.Wav, st.Start, st.Start+st.ChunkSeconds, r.session.PreviewPath())
}

func (r *repl) box(args []string) error {
	if len(args) != 4 {
		return userInput("usage: box <x0> <y0> <x1> <y1>")
	}
	var v [4]float64
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return userInput("invalid coordinate %q", a)
		}
		v[i] = f
	}

	// preview rows count down from the top, the axes count up from the bottom
	axes := r.session.Axes()
	toScreen := func(x, y float64) labeller.ScreenPoint {
		return labeller.ScreenPoint{X: axes.X0 + x, Y: axes.Y0 + axes.Height - y}
	}

	box, err := r.session.Drag(toScreen(v[0], v[1]), toScreen(v[2], v[3]))
	if err != nil {
		return err
	}
	output.Success(r.out, "%s: %s (%.2f-%.2fs, %.0f-%.0f Hz)",
		box.Class, box.LabelRow(), box.Display.Start, box.Display.End, box.Display.LowFreq, box.Display.HighFreq)
	return nil
}

func (r *repl) boxes([]string) error {
	boxes := r.session.Boxes()
	if len(boxes) == 0 {
		output.Info(r.out, "no boxes")
		return nil
	}
	for i, b := range boxes {
		output.Info(r.out, "%2d  %-24s %s", i+1, b.Class, b.LabelRow())
	}
	return nil
}

func (r *repl) undo([]string) error {
	box, ok := r.session.DeleteLastBox()
	if !ok {
		output.Info(r.out, "no boxes to delete")
		return nil
	}
	output.Info(r.out, "deleted %s box", box.Class)
	return nil
}

func (r *repl) clear([]string) error {
	r.session.ClearBoxes()
	output.Info(r.out, "cleared boxes")
	return nil
}

func (r *repl) class(args []string) error {
	if len(args) == 0 {
		return userInput("usage: class <name|index>")
	}
	name := strings.Join(args, " ")
	if i, err := strconv.Atoi(name); err == nil {
		classes := r.session.Classes()
		if i < 0 || i >= len(classes) {
			return userInput("class index %d out of range 0-%d", i, len(classes)-1)
		}
		name = classes[i]
	}
	if err := r.session.SetClass(name); err != nil {
		return err
	}
	output.Info(r.out, "class: %s", name)
	return nil
}

func (r *repl) classes([]string) error {
	current := r.session.Class()
	for i, c := range r.session.Classes() {
		marker := " "
		if c == current {
			marker = "*"
		}
		output.Info(r.out, "%s %d %s", marker, i, c)
	}
	return nil
}

func (r *repl) play([]string) error {
	return r.session.Play()
}

func (r *repl) stop([]string) error {
	return r.session.Stop()
}

func (r *repl) export([]string) error {
	res, err := r.session.Export()
	if err != nil {
		return err
	}
	output.Success(r.out, "Exported %d boxes to %s and %s", res.Boxes, res.LabelPath, res.ImagePath)
	return nil
}

func (r *repl) status([]string) error {
	output.Info(r.out, "%s", r.session.Status())
	return nil
}

func (r *repl) help([]string) error {
	names := []string{"load", "csv", "detections", "chunk", "next", "prev", "box", "boxes", "undo", "clear",
		"class", "classes", "play", "stop", "export", "status", "help", "quit"}
	for _, n := range names {
		c := commands[n]
		output.Info(r.out, "  %-26s %s", c.usage, c.help)
	}
	return nil
}
