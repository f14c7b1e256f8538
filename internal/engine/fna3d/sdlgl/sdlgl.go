// Package sdlgl is an fna3d backend drawing through an SDL2 window and an
// OpenGL 4.1 core context. Every method must run on the thread that
// created the device; SDL and GL contexts are thread bound.
package sdlgl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/fnago/internal/engine/fna3d"
	"github.com/Faultbox/fnago/pkg/math"
)

// The backend drives a single window, so there is only ever one device.
const deviceHandle fna3d.DeviceHandle = 1

const (
	maxTextureSlots       = 16
	maxVertexTextureSlots = 4
)

// Backend implements fna3d.Backend.
type Backend struct {
	log *zap.Logger

	window  *sdl.Window
	glctx   sdl.GLContext
	program uint32
	vao     uint32
	white   uint32

	next     uint64
	textures map[fna3d.TextureHandle]*glTexture
	buffers  map[fna3d.BufferHandle]uint32
	blend    fna3d.Color
	debug    bool
}

type glTexture struct {
	name   uint32
	format fna3d.SurfaceFormat
	width  int
	height int
}

// New returns a backend with no device yet.
func New(log *zap.Logger) *Backend {
	if log == nil {
		log = zap.NewNop()
	}
	return &Backend{
		log:      log,
		textures: make(map[fna3d.TextureHandle]*glTexture),
		buffers:  make(map[fna3d.BufferHandle]uint32),
	}
}

// PrepareWindowAttributes initializes SDL video and requests a 4.1 core
// context. It returns the SDL window flags a compatible window needs.
func (b *Backend) PrepareWindowAttributes() uint32 {
	if err := sdl.InitSubSystem(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		b.log.Error("SDL_InitSubSystem failed", zap.Error(err))
	}

	// 4.1 is the newest core profile macOS offers.
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)
	sdl.GLSetAttribute(sdl.GL_STENCIL_SIZE, 8)

	return sdl.WINDOW_OPENGL
}

// DrawableSize returns the window's drawable size in pixels, which
// differs from its size in points on high-DPI displays.
func (b *Backend) DrawableSize(window uintptr) (int, int) {
	if b.window == nil {
		return 0, 0
	}
	w, h := b.window.GLGetDrawableSize()
	return int(w), int(h)
}

// CreateDevice opens the window and GL context described by params.
func (b *Backend) CreateDevice(params fna3d.PresentationParameters, debug bool) (fna3d.DeviceHandle, error) {
	if b.window != nil {
		return 0, fmt.Errorf("sdlgl: device already created")
	}

	flags := b.PrepareWindowAttributes() | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI
	if params.IsFullScreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	if debug {
		sdl.GLSetAttribute(sdl.GL_CONTEXT_FLAGS, sdl.GL_CONTEXT_DEBUG_FLAG)
	}

	title := params.WindowTitle
	if title == "" {
		title = "FNA"
	}

	var err error
	b.window, err = sdl.CreateWindow(
		title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(params.BackBufferWidth),
		int32(params.BackBufferHeight),
		flags,
	)
	if err != nil {
		return 0, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	b.glctx, err = b.window.GLCreateContext()
	if err != nil {
		b.window.Destroy()
		b.window = nil
		return 0, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	if err := gl.Init(); err != nil {
		b.destroyWindow()
		return 0, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	interval := 1
	if params.PresentationInterval == fna3d.PresentIntervalImmediate {
		interval = 0
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		b.log.Warn("failed to set swap interval", zap.Int("interval", interval), zap.Error(err))
	}

	b.program, err = compileProgram(vertexShader, fragmentShader)
	if err != nil {
		b.destroyWindow()
		return 0, err
	}
	gl.UseProgram(b.program)
	gl.Uniform1i(gl.GetUniformLocation(b.program, gl.Str("tex\x00")), 0)

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)
	b.white = whiteTexture()

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	b.debug = debug

	b.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)
	return deviceHandle, nil
}

// DestroyDevice releases every GL object, the context and the window.
func (b *Backend) DestroyDevice(dev fna3d.DeviceHandle) {
	for h, t := range b.textures {
		gl.DeleteTextures(1, &t.name)
		delete(b.textures, h)
	}
	for h, name := range b.buffers {
		gl.DeleteBuffers(1, &name)
		delete(b.buffers, h)
	}
	if b.white != 0 {
		gl.DeleteTextures(1, &b.white)
	}
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
	}
	if b.program != 0 {
		gl.DeleteProgram(b.program)
	}
	b.destroyWindow()
	sdl.QuitSubSystem(sdl.INIT_VIDEO | sdl.INIT_EVENTS)
	b.log.Info("sdlgl device destroyed")
}

func (b *Backend) destroyWindow() {
	if b.glctx != nil {
		sdl.GLDeleteContext(b.glctx)
		b.glctx = nil
	}
	if b.window != nil {
		b.window.Destroy()
		b.window = nil
	}
}

// SwapBuffers presents the default framebuffer. Source and destination
// rectangles are blitted when given.
func (b *Backend) SwapBuffers(dev fna3d.DeviceHandle, src, dst *fna3d.Rectangle, window uintptr) {
	if src != nil || dst != nil {
		w, h := b.DrawableSize(window)
		s := fna3d.Rectangle{W: int32(w), H: int32(h)}
		d := s
		if src != nil {
			s = *src
		}
		if dst != nil {
			d = *dst
		}
		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
		gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
		gl.BlitFramebuffer(s.X, s.Y, s.X+s.W, s.Y+s.H, d.X, d.Y, d.X+d.W, d.Y+d.H,
			gl.COLOR_BUFFER_BIT, gl.LINEAR)
	}
	b.window.GLSwap()
}

// PollEvents drains the SDL event queue and reports whether the user
// asked to quit.
func (b *Backend) PollEvents() (quit bool) {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch e := ev.(type) {
		case *sdl.QuitEvent:
			quit = true
		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Keysym.Sym == sdl.K_ESCAPE {
				quit = true
			}
		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				w, h := b.DrawableSize(0)
				gl.Viewport(0, 0, int32(w), int32(h))
				b.log.Debug("window resized", zap.Int("width", w), zap.Int("height", h))
			}
		}
	}
	return quit
}

// Clear clears the selected buffers of the current render target.
func (b *Backend) Clear(dev fna3d.DeviceHandle, opts fna3d.ClearOptions, color math.Vec4, depth float32, stencil int32) {
	var mask uint32
	if opts&fna3d.ClearTarget != 0 {
		gl.ClearColor(color.X, color.Y, color.Z, color.W)
		mask |= gl.COLOR_BUFFER_BIT
	}
	if opts&fna3d.ClearDepthBuffer != 0 {
		gl.DepthMask(true)
		gl.ClearDepth(float64(depth))
		mask |= gl.DEPTH_BUFFER_BIT
	}
	if opts&fna3d.ClearStencil != 0 {
		gl.ClearStencil(stencil)
		mask |= gl.STENCIL_BUFFER_BIT
	}
	gl.Clear(mask)
}

// SetViewport sets the viewport and depth range.
func (b *Backend) SetViewport(dev fna3d.DeviceHandle, vp fna3d.Viewport) {
	gl.Viewport(vp.X, vp.Y, vp.W, vp.H)
	gl.DepthRangef(vp.MinDepth, vp.MaxDepth)
}

// SetScissorRect sets the scissor box and enables the scissor test.
func (b *Backend) SetScissorRect(dev fna3d.DeviceHandle, r fna3d.Rectangle) {
	gl.Enable(gl.SCISSOR_TEST)
	gl.Scissor(r.X, r.Y, r.W, r.H)
}

// SetBlendFactor sets the constant blend color.
func (b *Backend) SetBlendFactor(dev fna3d.DeviceHandle, c fna3d.Color) {
	b.blend = c
	gl.BlendColor(float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255)
}

// BlendFactor returns the constant blend color.
func (b *Backend) BlendFactor(dev fna3d.DeviceHandle) fna3d.Color {
	return b.blend
}

// BackbufferSize returns the drawable size.
func (b *Backend) BackbufferSize(dev fna3d.DeviceHandle) (int, int) {
	return b.DrawableSize(0)
}

// SupportsHardwareInstancing is always true on a 4.1 context.
func (b *Backend) SupportsHardwareInstancing(dev fna3d.DeviceHandle) bool {
	return true
}

// MaxTextureSlots returns the sampler counts, capped at the XNA limits.
func (b *Backend) MaxTextureSlots(dev fna3d.DeviceHandle) (int, int) {
	var units, vertexUnits int32
	gl.GetIntegerv(gl.MAX_TEXTURE_IMAGE_UNITS, &units)
	gl.GetIntegerv(gl.MAX_VERTEX_TEXTURE_IMAGE_UNITS, &vertexUnits)
	return min(int(units), maxTextureSlots), min(int(vertexUnits), maxVertexTextureSlots)
}

func (b *Backend) nextHandle() uint64 {
	b.next++
	return b.next
}
