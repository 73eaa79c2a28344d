package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/redthing1/regular-tools/codec"
	"github.com/redthing1/regular-tools/isa"
	"github.com/rivo/tview"
)

// TUI is the interactive step-debugger screen: a disassembly panel, a
// register panel, a stack panel, and a command line, in the same
// tview.Flex layout idiom the teacher's panel-based debugger uses,
// trimmed to this ISA's single flat memory region (no separate
// source/memory-dump/breakpoint-list panels, since this debugger has
// no source-map feature and "list"/"regs" already cover memory and
// breakpoints inline).
type TUI struct {
	Debugger *Debugger

	App        *tview.Application
	MainLayout *tview.Flex

	DisassemblyView *tview.TextView
	RegisterView    *tview.TextView
	StackView       *tview.TextView
	OutputView      *tview.TextView
	CommandInput    *tview.InputField
}

// NewTUI builds a TUI over d, wiring key bindings and the initial view
// refresh.
func NewTUI(d *Debugger) *TUI {
	return newTUI(d, tview.NewApplication())
}

// NewTUIWithScreen builds a TUI bound to an explicit tcell.Screen — a
// tcell.SimulationScreen in tests, so panel refreshes can be exercised
// without a real terminal.
func NewTUIWithScreen(d *Debugger, screen tcell.Screen) *TUI {
	app := tview.NewApplication()
	app.SetScreen(screen)
	return newTUI(d, app)
}

func newTUI(d *Debugger, app *tview.Application) *TUI {
	t := &TUI{
		Debugger: d,
		App:      app,
	}
	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()
	return t
}

func (t *TUI) initializeViews() {
	t.DisassemblyView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.DisassemblyView.SetBorder(true).SetTitle(" Disassembly ")

	t.RegisterView = tview.NewTextView().SetDynamicColors(true).SetScrollable(false)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.StackView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.StackView.SetBorder(true).SetTitle(" Stack ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	rightPanel := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.RegisterView, 10, 0, false).
		AddItem(t.StackView, 0, 1, false)

	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.DisassemblyView, 0, 2, false).
		AddItem(rightPanel, 0, 1, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(t.OutputView, 8, 0, false).
		AddItem(t.CommandInput, 3, 0, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF5:
			t.runCommand("continue")
			return nil
		case tcell.KeyF11:
			t.runCommand("step")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := t.CommandInput.GetText()
	if cmd == "" {
		return
	}
	t.runCommand(cmd)
	t.CommandInput.SetText("")
}

// runCommand executes one debugger command and refreshes every panel.
// It recognizes the same command set as RunHeadless's switch, so a
// user's muscle memory transfers between the headless driver and the
// TUI.
func (t *TUI) runCommand(cmd string) {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return
	}

	var err error
	switch fields[0] {
	case "s", "step":
		err = t.Debugger.Step()
	case "c", "continue":
		err = t.Debugger.Continue()
	case "b", "break":
		if len(fields) < 2 {
			t.WriteOutput("usage: break <addr>\n")
			return
		}
		addr, perr := strconv.ParseUint(strings.TrimPrefix(fields[1], "$"), 16, 32)
		if perr != nil {
			t.WriteOutput(fmt.Sprintf("bad address %q\n", fields[1]))
			return
		}
		t.Debugger.Breakpoints.Set(uint32(addr))
	case "regs":
		t.WriteOutput(t.Debugger.FormatRegisters())
	case "list":
		for _, l := range t.Debugger.Disassembly(30) {
			t.WriteOutput(l + "\n")
		}
	case "h", "help":
		t.WriteOutput("s(tep) c(ontinue) b(reak) <addr> regs list q(uit)\n")
	case "q", "quit":
		t.App.Stop()
		return
	default:
		t.WriteOutput(fmt.Sprintf("unknown command %q\n", cmd))
	}
	if err != nil {
		t.WriteOutput(fmt.Sprintf("error: %v\n", err))
	}
	t.RefreshAll()
	if !t.Debugger.VM.Executing {
		t.WriteOutput("halted\n")
	}
}

// WriteOutput appends text to the output panel and scrolls to its end.
func (t *TUI) WriteOutput(text string) {
	fmt.Fprint(t.OutputView, text)
	t.OutputView.ScrollToEnd()
}

// RefreshAll repaints every panel from current debugger state.
func (t *TUI) RefreshAll() {
	t.DisassemblyView.Clear()
	for _, line := range t.Debugger.Disassembly(30) {
		fmt.Fprintln(t.DisassemblyView, line)
	}

	t.RegisterView.Clear()
	fmt.Fprint(t.RegisterView, t.Debugger.FormatRegisters())

	t.StackView.Clear()
	sp := t.Debugger.VM.Reg[isa.RegSP]
	for i := 0; i < 16; i++ {
		addr := sp + uint32(i*4)
		fmt.Fprintf(t.StackView, "%s: $%08x\n", codec.FormatAddress(addr), t.Debugger.VM.Mem.ReadWord(addr))
	}

	t.App.Draw()
}

// Run starts the TUI event loop. It blocks until the user quits
// (Ctrl+C) or the application is stopped programmatically.
func (t *TUI) Run() error {
	t.RefreshAll()
	return t.App.SetRoot(t.MainLayout, true).SetFocus(t.CommandInput).Run()
}
