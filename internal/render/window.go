package render

import (
	"encoding/binary"
	"fmt"

	"depthwall/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// WindowOptions configures the raylib window.
type WindowOptions struct {
	Title     string
	Width     int
	Height    int
	Wallpaper bool
	TargetFPS int
}

// OpenWindow creates the raylib window. In wallpaper mode the window is
// undecorated, resized to the monitor, and reparented to the desktop
// layer through X11.
func OpenWindow(opts WindowOptions) {
	rl.SetTraceLogCallback(utils.RaylibLogCallback)

	flags := uint32(rl.FlagMsaa4xHint)
	if opts.Wallpaper {
		flags |= rl.FlagWindowUndecorated
	} else {
		flags |= rl.FlagWindowResizable
	}
	rl.SetConfigFlags(flags)

	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		width, height = 1280, 720
	}
	rl.InitWindow(int32(width), int32(height), opts.Title)

	if opts.TargetFPS <= 0 {
		opts.TargetFPS = 60
	}
	rl.SetTargetFPS(int32(opts.TargetFPS))

	if opts.Wallpaper {
		monitor := rl.GetCurrentMonitor()
		rl.SetWindowSize(rl.GetMonitorWidth(monitor), rl.GetMonitorHeight(monitor))
		rl.SetWindowPosition(0, 0)

		if err := lowerToDesktop(opts.Title); err != nil {
			utils.Warn("Window: could not move to desktop layer: %v", err)
		}
	}
}

// CloseWindow tears the raylib window down.
func CloseWindow() {
	rl.CloseWindow()
}

// lowerToDesktop finds our window by title and tags it as a desktop
// window so the window manager keeps it below everything else.
func lowerToDesktop(title string) error {
	if err := utils.InitX11(); err != nil {
		return err
	}
	conn := utils.XConn

	win, err := findWindowByName(conn, utils.XRoot, title)
	if err != nil {
		return err
	}

	typeAtom, err := internAtom(conn, "_NET_WM_WINDOW_TYPE")
	if err != nil {
		return err
	}
	desktopAtom, err := internAtom(conn, "_NET_WM_WINDOW_TYPE_DESKTOP")
	if err != nil {
		return err
	}

	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, uint32(desktopAtom))
	if err := xproto.ChangePropertyChecked(conn, xproto.PropModeReplace, win,
		typeAtom, xproto.AtomAtom, 32, 1, data).Check(); err != nil {
		return err
	}

	return xproto.ConfigureWindowChecked(conn, win,
		xproto.ConfigWindowStackMode, []uint32{uint32(xproto.StackModeBelow)}).Check()
}

func internAtom(conn *xgb.Conn, name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}
	return reply.Atom, nil
}

func findWindowByName(conn *xgb.Conn, root xproto.Window, name string) (xproto.Window, error) {
	tree, err := xproto.QueryTree(conn, root).Reply()
	if err != nil {
		return 0, err
	}

	for _, child := range tree.Children {
		prop, err := xproto.GetProperty(conn, false, child, xproto.AtomWmName,
			xproto.AtomString, 0, 256).Reply()
		if err == nil && string(prop.Value) == name {
			return child, nil
		}
		if found, err := findWindowByName(conn, child, name); err == nil {
			return found, nil
		}
	}
	return 0, fmt.Errorf("window %q not found", name)
}
