package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"depthwall/internal/audio"
	"depthwall/internal/config"
	"depthwall/internal/convert"
	"depthwall/internal/effect"
	"depthwall/internal/engine"
	"depthwall/internal/render"
	"depthwall/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func main() {
	background := flag.String("bg", "", "Background name under the assets directory")
	assetsDir := flag.String("assets", utils.AssetsRoot, "Directory holding background folders")
	listMode := flag.Bool("list", false, "List available backgrounds and exit")
	wallpaper := flag.Bool("wallpaper", false, "Run as an X11 desktop-layer wallpaper")
	effectNames := flag.String("effects", "", "Comma-separated effect names (lantern,ripple,dust)")
	silent := flag.Bool("silent", false, "Disable audio")
	debugFlag := flag.Bool("debug", false, "Enable verbose debug logging")
	fps := flag.Int("fps", 60, "Target frame rate")
	flag.Parse()

	utils.AssetsRoot = *assetsDir
	utils.SilentMode = *silent
	utils.DebugMode = *debugFlag
	if *debugFlag {
		utils.CurrentLevel = utils.LevelDebug
	} else {
		utils.CurrentLevel = utils.LevelInfo
	}

	if *listMode {
		for _, name := range utils.ListBackgrounds() {
			fmt.Println(name)
		}
		return
	}

	if *background == "" {
		names := utils.ListBackgrounds()
		if len(names) == 0 {
			utils.Error("No backgrounds found under %s", utils.AssetsRoot)
			os.Exit(1)
		}
		*background = names[0]
		utils.Info("No -bg given, using %s", *background)
	}

	paths := utils.ResolveBackground(*background)

	// Packed backgrounds are extracted into the cache, then resolved
	// again from there.
	if paths.Image == "" && paths.Bundle != "" {
		outDir := filepath.Join(utils.CacheRoot, *background)
		utils.Info("Extracting %s", paths.Bundle)
		if err := convert.ExtractBundle(paths.Bundle, outDir); err != nil {
			utils.Error("Bundle extraction failed: %v", err)
			os.Exit(1)
		}
		convert.ConvertTextures(outDir, "")
		paths = utils.ResolveBackground(*background)
	}

	if paths.Image == "" || paths.Depth == "" {
		utils.Error("Background %q is missing its image or depth map", *background)
		os.Exit(1)
	}

	settings := config.Load(paths.Config)

	render.OpenWindow(render.WindowOptions{
		Title:     "depthwall: " + *background,
		Width:     int(settings.ReferenceViewport.Width),
		Height:    int(settings.ReferenceViewport.Height),
		Wallpaper: *wallpaper,
		TargetFPS: *fps,
	})
	defer render.CloseWindow()

	renderer, err := render.NewRenderer(settings.CameraZ)
	if err != nil {
		utils.Error("%v", err)
		os.Exit(1)
	}

	eng := engine.New(engine.Options{
		Settings: settings,
		Renderer: renderer,
		Registry: effect.Registry(filepath.Dir(paths.Image)),
		Effects:  splitEffects(*effectNames),
	})
	defer eng.Cleanup()

	if err := eng.LoadBackground(paths.Image, paths.Depth); err != nil {
		utils.Error("Failed to load background: %v", err)
		os.Exit(1)
	}

	player := audio.NewPlayer()
	defer player.Close()
	if settings.Sound != "" {
		player.Play(filepath.Join(filepath.Dir(paths.Image), settings.Sound), settings.SoundVolume)
	}

	now := time.Now()
	poller := render.NewInputPoller(eng.Fusion, *wallpaper, now)
	eng.SetTouchCapable(poller.TouchCapable())
	eng.Start(now)

	width := float64(rl.GetScreenWidth())
	height := float64(rl.GetScreenHeight())
	dpr := settings.DevicePixelRatio.Resolve(width, height)
	utils.Debug("Viewport %gx%g, device pixel ratio %.2f", width, height, dpr)
	eng.Resize(width, height)

	overlay := render.NewDebugOverlay()
	last := time.Now()
	motionLocked := false

	for !rl.WindowShouldClose() {
		now := time.Now()
		dt := now.Sub(last).Seconds()
		last = now

		if w, h := float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()); w != width || h != height {
			width, height = w, h
			eng.Resize(width, height)
		}

		if rl.IsKeyPressed(rl.KeyF8) {
			utils.ShowDebugUI = !utils.ShowDebugUI
		}
		if rl.IsKeyPressed(rl.KeyL) {
			motionLocked = !motionLocked
			eng.SetMotionLock(motionLocked)
		}

		poller.Poll(eng.Fusion, now)
		player.Update()

		rl.BeginDrawing()
		eng.Step(now, dt)
		if utils.ShowDebugUI {
			overlay.Draw(eng)
		}
		rl.EndDrawing()
	}
}

func splitEffects(list string) []string {
	if list == "" {
		return nil
	}
	var names []string
	for _, name := range strings.Split(list, ",") {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}
