package terminal

import (
	"errors"

	"github.com/gdamore/tcell/v2"

	"github.com/go-drift/dialtimer/pkg/input"
)

// ErrQuit is returned by Pump when the user asks to exit.
var ErrQuit = errors.New("terminal: quit requested")

// Action is what a terminal event means to the device.
type Action int

const (
	ActionNone Action = iota
	ActionTurn
	ActionPress
	ActionResize
	ActionQuit
)

// Translate maps an event to an action. For ActionTurn, steps is the signed
// rotation.
//
//	Right l + Up, wheel up      one step clockwise
//	Left h - Down, wheel down   one step counter-clockwise
//	Space Enter                 button press
//	q Esc Ctrl-C                quit
func Translate(ev tcell.Event) (Action, int) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		return ActionResize, 0
	case *tcell.EventMouse:
		switch {
		case ev.Buttons()&tcell.WheelUp != 0:
			return ActionTurn, 1
		case ev.Buttons()&tcell.WheelDown != 0:
			return ActionTurn, -1
		case ev.Buttons()&tcell.Button1 != 0:
			return ActionPress, 0
		}
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyRight, tcell.KeyUp:
			return ActionTurn, 1
		case tcell.KeyLeft, tcell.KeyDown:
			return ActionTurn, -1
		case tcell.KeyEnter:
			return ActionPress, 0
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return ActionQuit, 0
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'l', '+':
				return ActionTurn, 1
			case 'h', '-':
				return ActionTurn, -1
			case ' ':
				return ActionPress, 0
			case 'q', 'Q':
				return ActionQuit, 0
			}
		}
	}
	return ActionNone, 0
}

// Pump reads events from screen until it is finalized or the user quits,
// feeding inbox and scheduling panel resizes. It returns nil when the screen
// is finalized and ErrQuit on a quit key.
func Pump(screen tcell.Screen, panel *Panel, inbox *input.Mailbox) error {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return nil
		}
		action, steps := Translate(ev)
		switch action {
		case ActionTurn:
			inbox.AddSteps(steps)
		case ActionPress:
			inbox.Press()
		case ActionResize:
			if panel != nil {
				panel.Resize()
			}
		case ActionQuit:
			return ErrQuit
		}
	}
}
