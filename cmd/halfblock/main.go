// halfblock - software 3D renderer for the terminal
// Renders triangle meshes as colored half-block glyphs, two pixels per cell.
//
// Controls:
//
//	W/S         - Move camera forward/back
//	A/D         - Move camera left/right
//	Arrow keys  - Rotate camera (pitch/yaw)
//	+/-         - Zoom in/out
//	F/G         - Narrow/widen field of view
//	0-7         - Set render quality level
//	M           - Cycle mesh material (flat/phong/wireframe)
//	Space       - Apply random spin to the scene
//	P           - Save a snapshot (PNG + WebP)
//	R           - Reset camera
//	?           - Toggle HUD overlay
//	Esc         - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/soralume/halfblock/pkg/math3d"
	"github.com/soralume/halfblock/pkg/render"
	"github.com/soralume/halfblock/pkg/scene"
	"github.com/soralume/halfblock/pkg/shapes"
)

var (
	targetFPS = flag.Int("fps", 30, "Target FPS")
	quality   = flag.Int("quality", 3, "Render quality level (0-7)")
	bgColor   = flag.String("bg", "12,12,20", "Background color (R,G,B)")
	snapDir   = flag.String("snapdir", ".", "Directory for snapshot files")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "halfblock - terminal 3D renderer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: halfblock [options] [model.glb]\n\n")
		fmt.Fprintf(os.Stderr, "Renders a built-in demo scene, or a GLB model if given.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Move camera\n")
		fmt.Fprintf(os.Stderr, "  Arrow keys  - Rotate camera\n")
		fmt.Fprintf(os.Stderr, "  +/-         - Zoom\n")
		fmt.Fprintf(os.Stderr, "  F/G         - Adjust field of view\n")
		fmt.Fprintf(os.Stderr, "  0-7         - Render quality\n")
		fmt.Fprintf(os.Stderr, "  M           - Cycle material\n")
		fmt.Fprintf(os.Stderr, "  Space       - Random spin\n")
		fmt.Fprintf(os.Stderr, "  P           - Snapshot\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset camera\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// SpinAxis tracks spin velocity for one axis with spring decay.
type SpinAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64
}

func NewSpinAxis(fps int) SpinAxis {
	return SpinAxis{
		// Damping 1.0 is critically damped, so velocity settles
		// without oscillating.
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and decays velocity toward 0.
func (a *SpinAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// SpinState holds scene spin with harmonica spring physics.
type SpinState struct {
	Pitch, Yaw, Roll SpinAxis
	fps              int
}

func NewSpinState(fps int) *SpinState {
	return &SpinState{
		Pitch: NewSpinAxis(fps),
		Yaw:   NewSpinAxis(fps),
		Roll:  NewSpinAxis(fps),
		fps:   fps,
	}
}

func (s *SpinState) Update() {
	s.Pitch.Update()
	s.Yaw.Update()
	s.Roll.Update()
}

func (s *SpinState) ApplyImpulse(pitch, yaw, roll float64) {
	s.Pitch.Velocity += pitch
	s.Yaw.Velocity += yaw
	s.Roll.Velocity += roll
}

func (s *SpinState) Reset() {
	s.Pitch = NewSpinAxis(s.fps)
	s.Yaw = NewSpinAxis(s.fps)
	s.Roll = NewSpinAxis(s.fps)
}

// HUD renders an overlay with frame and scene statistics.
type HUD struct {
	title     string
	fps       float64
	fpsFrames int
	fpsTime   time.Time
	Show      bool
	Status    string
	statusAt  time.Time
}

func NewHUD(title string) *HUD {
	return &HUD{
		title:   title,
		fpsTime: time.Now(),
		Show:    true,
	}
}

// UpdateFPS updates the FPS counter (call once per frame).
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Flash shows a transient status message on the bottom row.
func (h *HUD) Flash(msg string) {
	h.Status = msg
	h.statusAt = time.Now()
}

// Render draws the HUD overlay directly to the terminal.
func (h *HUD) Render(width, height int, frame render.FrameStats, sc scene.Stats, material scene.Material) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		dim       = "\x1b[2m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgCyan    = "\x1b[96m"
		fgYellow  = "\x1b[93m"
		clearLine = "\x1b[2K"
	)

	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Always clear the HUD rows so toggling off works.
	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)

	if !h.Show {
		return
	}

	fmt.Printf("%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, reset)

	titleCol := max((width-len(h.title)-2)/2, 1)
	fmt.Printf("%s%s%s%s %s %s", moveTo(1, titleCol), bold, bgBlack, fgWhite, h.title, reset)

	statsStr := fmt.Sprintf(" %d tris  %dx%d ", frame.Triangles, frame.PixelW, frame.PixelH)
	statsCol := max(width-len(statsStr)-1, 1)
	fmt.Printf("%s%s%s%s%s", moveTo(1, statsCol), bgBlack, fgCyan, statsStr, reset)

	bottom := fmt.Sprintf(" %s  %d nodes  %d lights  %d culled ",
		material, sc.Nodes, frame.Lights, frame.Culled)
	fmt.Printf("%s%s%s%s%s", moveTo(height, 1), bgBlack, fgWhite, bottom, reset)

	if h.Status != "" && time.Since(h.statusAt) < 2*time.Second {
		statusCol := max(width-len(h.Status)-1, 1)
		fmt.Printf("%s%s%s%s %s %s", moveTo(height, statusCol), bgBlack, dim, fgYellow, h.Status, reset)
	}
}

// demoScene builds the built-in orbit scene: a cube sun with an
// orbiting sphere planet, which itself carries a torus moon.
func demoScene() *scene.Scene {
	s := scene.New()

	sun := scene.NewNode("sun")
	sun.Mesh = shapes.Cube(1.4, render.RGB(240, 180, 60))
	sun.AddTag("body")
	s.Attach(nil, sun)

	// The pivot sits at the parent, so rotating the orbit node swings
	// the planet around it.
	planetOrbit := scene.NewNode("planet.orbit")
	planetOrbit.Transform.Pos = math3d.V3(3.2, 0, 0)
	planetOrbit.Transform.Pivot = math3d.V3(-3.2, 0, 0)
	s.Attach(sun, planetOrbit)

	planet := scene.NewNode("planet")
	planet.Mesh = shapes.UVSphere(0.7, 14, 10)
	planet.Mesh.Material = scene.MaterialPhong
	planet.AddTag("body")
	s.Attach(planetOrbit, planet)

	moonOrbit := scene.NewNode("moon.orbit")
	moonOrbit.Transform.Pos = math3d.V3(1.4, 0, 0)
	moonOrbit.Transform.Pivot = math3d.V3(-1.4, 0, 0)
	s.Attach(planet, moonOrbit)

	moon := scene.NewNode("moon")
	moon.Mesh = shapes.Torus(0.3, 0.12, 14, 8, render.RGB(180, 180, 200))
	moon.AddTag("body")
	s.Attach(moonOrbit, moon)

	ground := scene.NewNode("ground")
	ground.Mesh = shapes.Plane(12, 12, 6, 6, render.RGB(60, 70, 80))
	ground.Transform.Pos = math3d.V3(0, -2.5, 0)
	s.Attach(nil, ground)

	sunLight := scene.NewNode("light.key")
	sunLight.Light = scene.NewDirectionalLight(math3d.V3(-0.4, -1, 0.6), render.RGB(255, 244, 224), 0.9)
	s.Attach(nil, sunLight)

	fill := scene.NewNode("light.fill")
	fill.Light = scene.NewPointLight(math3d.V3(0, 2.5, -3), render.RGB(120, 140, 255), 0.6)
	s.Attach(nil, fill)

	spot := scene.NewNode("light.spot")
	spot.Light = scene.NewSpotLight(math3d.V3(0, 5, 0), math3d.V3(0, -1, 0), render.RGB(255, 255, 255), 1.2, 18, 32)
	s.Attach(nil, spot)

	return s
}

// modelScene loads a GLB file into a single-mesh scene, centered and
// scaled to a 2-unit extent.
func modelScene(path string) (*scene.Scene, error) {
	mesh, err := scene.LoadGLB(path, scene.MaterialFlat)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	center := mesh.Center()
	size := mesh.Size()
	maxDim := max(size.X, max(size.Y, size.Z))

	s := scene.New()
	n := scene.NewNode("model")
	n.Mesh = mesh
	n.Transform.Pivot = center
	n.Transform.Pos = center.Negate()
	if maxDim > 0 {
		f := 2.0 / maxDim
		n.Transform.Scale = math3d.V3(f, f, f)
	}
	s.Attach(nil, n)

	key := scene.NewNode("light.key")
	key.Light = scene.NewDirectionalLight(math3d.V3(-0.5, -1, 0.5), render.RGB(255, 255, 255), 1)
	s.Attach(nil, key)

	return s, nil
}

func parseBG(s string) (r, g, b uint8) {
	r, g, b = 12, 12, 20
	fmt.Sscanf(s, "%d,%d,%d", &r, &g, &b)
	return r, g, b
}

func cycleMaterial(m scene.Material) scene.Material {
	switch m {
	case scene.MaterialFlat:
		return scene.MaterialPhong
	case scene.MaterialPhong:
		return scene.MaterialWireframe
	default:
		return scene.MaterialFlat
	}
}

func run(modelPath string) error {
	bgR, bgG, bgB := parseBG(*bgColor)

	var sc *scene.Scene
	var err error
	title := "demo scene"
	if modelPath != "" {
		sc, err = modelScene(modelPath)
		if err != nil {
			return err
		}
		title = filepath.Base(modelPath)
	} else {
		sc = demoScene()
	}

	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	renderer := render.NewRenderer(width, height)
	renderer.SetClearColor(render.RGB(bgR, bgG, bgB))
	if err := renderer.SetRenderQuality(*quality); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	camera := scene.NewCamera()
	camera.Reset(6)

	hud := NewHUD(title)
	spin := NewSpinState(*targetFPS)
	material := scene.MaterialFlat

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	var snapRequest bool

	// Terminal size changes are latched here and applied between
	// frames, never while one is being rasterized.
	resizeCh := make(chan [2]int, 1)

	// Event handler
	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				// Keep only the most recent size.
				select {
				case <-resizeCh:
				default:
				}
				resizeCh <- [2]int{ev.Width, ev.Height}

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
					cancel()
					return
				case ev.MatchString("w"):
					camera.Move(0, 0, 0.4)
				case ev.MatchString("s"):
					camera.Move(0, 0, -0.4)
				case ev.MatchString("a"):
					camera.Move(-0.4, 0, 0)
				case ev.MatchString("d"):
					camera.Move(0.4, 0, 0)
				case ev.MatchString("up"):
					camera.Rotate(-0.08, 0, 0)
				case ev.MatchString("down"):
					camera.Rotate(0.08, 0, 0)
				case ev.MatchString("left"):
					camera.Rotate(0, -0.08, 0)
				case ev.MatchString("right"):
					camera.Rotate(0, 0.08, 0)
				case ev.MatchString("+", "="):
					camera.ZoomBy(-0.3)
				case ev.MatchString("-", "_"):
					camera.ZoomBy(0.3)
				case ev.MatchString("f"):
					camera.ChangeFOV(-5)
				case ev.MatchString("g"):
					camera.ChangeFOV(5)
				case ev.MatchString("m"):
					material = cycleMaterial(material)
					for _, n := range sc.MeshNodes() {
						n.Mesh.Material = material
					}
				case ev.MatchString("space"):
					spin.ApplyImpulse(
						(rand.Float64()-0.5)*0.3,
						(rand.Float64()-0.5)*0.3,
						(rand.Float64()-0.5)*0.3,
					)
				case ev.MatchString("p"):
					snapRequest = true
				case ev.MatchString("r"):
					camera.Reset(6)
					spin.Reset()
				case ev.MatchString("?"), ev.MatchString("shift+/"):
					hud.Show = !hud.Show
				default:
					if s := ev.String(); len(s) == 1 && s[0] >= '0' && s[0] <= '7' {
						level := int(s[0] - '0')
						if err := renderer.SetRenderQuality(level); err == nil {
							hud.Flash(fmt.Sprintf("quality %d", level))
						}
					}
				}
			}
		}
	}()

	targetDuration := time.Second / time.Duration(*targetFPS)
	start := time.Now()

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		default:
		}

		select {
		case size := <-resizeCh:
			renderer.Resize(size[0], size[1])
		default:
		}

		now := time.Now()

		spin.Update()
		elapsed := time.Since(start).Seconds()
		animate(sc, elapsed, spin)

		renderer.RenderInto(sc, camera)
		renderer.Draw(term, term.Bounds())
		if err := term.Display(); err != nil {
			cleanup()
			return fmt.Errorf("display: %w", err)
		}

		if snapRequest {
			snapRequest = false
			if name, err := saveSnapshot(renderer.Framebuffer()); err != nil {
				hud.Flash(fmt.Sprintf("snapshot failed: %v", err))
			} else {
				hud.Flash("saved " + name)
			}
		}

		hud.UpdateFPS()
		hud.Render(width, height, renderer.Stats(), sc.CollectStats(), material)

		frameTime := time.Since(now)
		if frameTime < targetDuration {
			time.Sleep(targetDuration - frameTime)
		}
	}
}

// animate drives the orbit hierarchy and the global spin. Nodes that
// are not part of the demo scene are simply not found and skipped.
func animate(sc *scene.Scene, elapsed float64, spin *SpinState) {
	if root := sc.FindByName("sun"); root != nil {
		root.Transform.Rot = math3d.V3(spin.Pitch.Position, elapsed*0.3+spin.Yaw.Position, spin.Roll.Position)
	}
	if n := sc.FindByName("model"); n != nil {
		n.Transform.Rot = math3d.V3(spin.Pitch.Position, elapsed*0.5+spin.Yaw.Position, spin.Roll.Position)
	}
	if n := sc.FindByName("planet.orbit"); n != nil {
		n.Transform.Rot.Y = elapsed * 0.8
	}
	if n := sc.FindByName("moon.orbit"); n != nil {
		n.Transform.Rot.Y = elapsed * 2.1
	}
	if n := sc.FindByName("moon"); n != nil {
		n.Transform.Rot.X = elapsed * 1.5
	}
	if n := sc.FindByName("light.fill"); n != nil && n.Light != nil {
		n.Light.Position = math3d.V3(math.Sin(elapsed*0.6)*4, 2.5, math.Cos(elapsed*0.6)*4)
	}
}

func saveSnapshot(fb *render.Framebuffer) (string, error) {
	stamp := time.Now().Format("20060102-150405")
	base := filepath.Join(*snapDir, "halfblock-"+stamp)

	if err := fb.SavePNG(base + ".png"); err != nil {
		return "", err
	}
	if err := fb.SaveWebP(base + ".webp"); err != nil {
		return "", err
	}
	return strings.TrimPrefix(base, "./") + ".{png,webp}", nil
}
