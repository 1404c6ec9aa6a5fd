package view

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"

	"lifetorus/src/simulation"
	"lifetorus/src/universe"
)

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

//Seeding tells the ConsoleUI what the P and W keys put into the universe
//with Random set the P key reseeds the field like W does
type Seeding struct {
	Pattern universe.Pattern
	Random  bool
	Seed    int64
	Density float64
}

//Name is the seeding name shown to the user
func (s Seeding) Name() string {
	if s.Random {
		return "random"
	}
	return s.Pattern.Name
}

type ConsoleUI struct {
	s       *simulation.Simulation
	g       *gocui.Gui
	k       []keyBindings
	seeding Seeding

	liveFiller string
	deadFiller string
}

var (
	runningStateDescr = map[simulation.RunningState]string{
		simulation.RunningStateManual:   aurora.Colorize("waiting", aurora.BlueFg).String(),
		simulation.RunningStateStep:     "do the step",
		simulation.RunningStateRun:      aurora.Colorize("running", aurora.CyanFg).String(),
		simulation.RunningStateFinished: aurora.Colorize("finished", aurora.RedFg).String(),
	}
)

//NewViewTerminal takes over the terminal, the caller must Start it to give it back
func NewViewTerminal(seeding Seeding) (*ConsoleUI, error) {
	var err error
	t := ConsoleUI{
		seeding:    seeding,
		liveFiller: aurora.Green("█").BgBrightGreen().String(),
		deadFiller: "░",
	}

	t.g, err = gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, errors.Wrap(err, "failed to init the terminal")
	}

	t.g.Mouse = true
	t.k = []keyBindings{
		{gocui.KeyCtrlC, "^C", "Exit", t.cmdQuit, ""},
		{gocui.KeySpace, "SPACE", "Next generation", t.cmdNextGeneration, ""},
		{'n', "N", "Next generation", t.cmdNextGeneration, ""},
		{'r', "R", "Run", t.cmdRun, ""},
		{'s', "S", "Stop", t.cmdStop, ""},
		{'c', "C", "Clear", t.cmdClear, ""},
		{'w', "W", "Settle with random", t.cmdSettleWithRandom, ""},
		{'p', "P", "Settle " + seeding.Name(), t.cmdSettlePattern, ""},
		{gocui.MouseLeft, "LEFT CLICK", "Make alive", t.cmdMakeAlive, "battlefield"},
		{gocui.MouseRight, "RIGHT CLICK", "Make dead", t.cmdMakeDead, "battlefield"},
	}
	t.g.SetManagerFunc(t.layout)

	if err = t.initKeyBindings(t.k); err != nil {
		t.g.Close()
		return nil, err
	}

	return &t, nil
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) error {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			return errors.Wrapf(err, "failed to bind %s", kb.name)
		}
	}
	return nil
}

func (t *ConsoleUI) Register(s *simulation.Simulation) {
	t.s = s
}

//Start runs the terminal main loop until the user quits
func (t *ConsoleUI) Start() error {
	defer t.g.Close()
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return errors.Wrap(err, "terminal main loop")
	}
	return nil
}

//Quit asks the main loop to return
func (t *ConsoleUI) Quit() {
	t.g.Update(func(*gocui.Gui) error { return gocui.ErrQuit })
}

func (t *ConsoleUI) Refresh() {
	f := t.s.Snapshot()
	t.renderField(f)
	t.renderConfiguration()
	t.renderStatus(f.Status)
}

func (t *ConsoleUI) renderField(f simulation.Frame) {

	t.g.Update(func(g *gocui.Gui) error {
		v, e := g.View("battlefield")
		if e != nil {
			return nil
		}
		v.Clear()
		_, _ = fmt.Fprint(v, t.fieldText(f, v))
		return nil
	})
}

func (t *ConsoleUI) fieldText(f simulation.Frame, v *gocui.View) string {
	crop := false
	maxW, maxH := v.Size()
	if f.Width > maxW || f.Height > maxH {
		crop = true
	}

	var b bytes.Buffer
	for row := 0; row < f.Height; row++ {
		//discard the data outside the view area
		if row >= maxH {
			break
		}
		if row != 0 {
			b.WriteByte('\n')
		}
		if crop && row == maxH-1 {
			b.WriteString(aurora.Red("The field size is larger than the viewing area").BgBlack().String())
			break
		}
		for column := 0; column < f.Width && column < maxW; column++ {
			if c, _ := f.Cell(row, column); c == universe.Alive {
				b.WriteString(t.liveFiller)
			} else {
				b.WriteString(t.deadFiller)
			}
		}
	}
	return b.String()
}

func (t *ConsoleUI) renderStatus(s simulation.Status) {
	t.g.Update(func(g *gocui.Gui) error {
		if v, e := g.View("status"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Generation", "%v", s.Generation))
			_, _ = fmt.Fprintln(v, t.renderProp("Live Cells", "%v", s.LiveCells))
			_, _ = fmt.Fprintln(v, t.renderProp("Evaluation time", "%v", s.IterationTime.Round(time.Microsecond)))
			_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", runningStateDescr[s.RunningMode]))
		}
		return nil
	})
}

func (t *ConsoleUI) renderConfiguration() {
	//it needs to call Update when calls from goroutine
	t.g.Update(func(g *gocui.Gui) error {
		c := t.s.Options()
		if v, e := g.View("configuration"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Dimension", "%v x %v", t.s.Width(), t.s.Height()))
			_, _ = fmt.Fprintln(v, t.renderProp("Interval", "%v", c.Interval))
			_, _ = fmt.Fprintln(v, t.renderProp("Generations", "%v max", c.MaxSteps))
			_, _ = fmt.Fprintln(v, t.renderProp("Pattern", "%v", t.seeding.Name()))
		}
		return nil
	})
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {

	maxX, maxY := g.Size()
	leftColumnWidth := 28
	minWindowHeight := 20

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
		_ = g.DeleteView("configuration")
		_ = g.DeleteView("status")
		_ = g.DeleteView("battlefield")
		return nil

	}
	if _, err := t.headerLayout(g, 3, "\"The Life\" on a torus"); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
	}

	f := t.s.Snapshot()

	if v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 3+(maxY-5-3)/2); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
		t.renderConfiguration()
	}

	if v, err := g.SetView("status", 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
		t.renderStatus(f.Status)
	}

	if v, err := g.SetView("battlefield", leftColumnWidth+1, 3, maxX-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Universe"
		v.Frame = true
	}
	t.renderField(f)

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-3); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		v.Wrap = true
		b := bytes.Buffer{}
		b.WriteString("KEYBINDINGS: ")
		for i, k := range t.k {
			if i != 0 {
				b.WriteString(", ")
			}
			b.WriteString(aurora.Green(k.name).String())
			b.WriteString(": ")
			b.WriteString(k.descr)
		}
		_, _ = fmt.Fprintln(v, b.String())
	}

	return nil
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		pad := 0
		if maxX > len(text) {
			pad = (maxX - len(text)) / 2
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2+1)+strings.Repeat(" ", pad)+text)
	}
	return
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdNextGeneration(_ *gocui.View) error {
	return ignoreClosed(t.s.Step())
}

func (t *ConsoleUI) cmdRun(_ *gocui.View) error {
	return ignoreClosed(t.s.Run())
}

func (t *ConsoleUI) cmdStop(_ *gocui.View) error {
	return ignoreClosed(t.s.Stop())
}

func (t *ConsoleUI) cmdClear(_ *gocui.View) error {
	return ignoreClosed(t.s.Clear())
}

func (t *ConsoleUI) cmdSettleWithRandom(_ *gocui.View) error {
	t.seeding.Seed++
	return ignoreClosed(t.s.Randomize(t.seeding.Seed, t.seeding.Density))
}

func (t *ConsoleUI) cmdSettlePattern(v *gocui.View) error {
	if t.seeding.Random {
		return t.cmdSettleWithRandom(v)
	}
	p := t.seeding.Pattern
	return ignoreClosed(t.s.Settle(p, t.s.Height()/2-1, t.s.Width()/2-1))
}

func (t *ConsoleUI) cmdMakeAlive(v *gocui.View) error {
	return t.setAtCursor(v, universe.Alive)
}

func (t *ConsoleUI) cmdMakeDead(v *gocui.View) error {
	return t.setAtCursor(v, universe.Dead)
}

//setAtCursor writes the cell under the mouse, clicks outside the field are ignored
func (t *ConsoleUI) setAtCursor(v *gocui.View, c universe.Cell) error {
	cx, cy := v.Cursor()
	ox, oy := v.Origin()
	return ignoreClosed(ignoreOutOfRange(t.s.SetCell(cy+oy, cx+ox, c)))
}

func ignoreOutOfRange(err error) error {
	if errors.Cause(err) == universe.ErrOutOfRange {
		return nil
	}
	return err
}

func ignoreClosed(err error) error {
	if err == simulation.ErrClosed {
		return gocui.ErrQuit
	}
	return err
}
