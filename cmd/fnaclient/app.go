package main

import (
	"encoding/binary"
	"fmt"
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/fnago/internal/config"
	"github.com/Faultbox/fnago/internal/engine/faudio"
	"github.com/Faultbox/fnago/internal/engine/faudio/beepaudio"
	"github.com/Faultbox/fnago/internal/engine/fna3d"
	"github.com/Faultbox/fnago/internal/engine/fna3d/sdlgl"
	"github.com/Faultbox/fnago/internal/engine/model"
	"github.com/Faultbox/fnago/internal/logger"
	"github.com/Faultbox/fnago/internal/threadcheck"
	"github.com/Faultbox/fnago/internal/title"
	"github.com/Faultbox/fnago/pkg/formats"
	"github.com/Faultbox/fnago/pkg/math"
	"github.com/Faultbox/fnago/pkg/packedvector"
)

// quadVertex: position (Vector4), color (Color), texcoord (Vector2).
var quadDecl = fna3d.VertexDeclaration{
	Stride: 28,
	Elements: []fna3d.VertexElement{
		{Offset: 0, Format: fna3d.ElementVector4, Usage: fna3d.UsagePosition},
		{Offset: 16, Format: fna3d.ElementColor, Usage: fna3d.UsageColor},
		{Offset: 20, Format: fna3d.ElementVector2, Usage: fna3d.UsageTextureCoordinate},
	},
}

type app struct {
	cfg *config.Config
	log *zap.Logger

	titles  *title.Container
	backend *sdlgl.Backend
	device  *fna3d.Device
	audio   *faudio.Engine
}

func newApp(cfg *config.Config, guard *threadcheck.Guard) (*app, error) {
	a := &app{cfg: cfg, log: logger.Named("client")}

	root := cfg.Title.Root
	if root == "" {
		var err error
		if root, err = title.DefaultRoot(); err != nil {
			return nil, fmt.Errorf("title location: %w", err)
		}
	}
	titles, err := title.New(root,
		title.WithCaseFallback(cfg.Title.CaseFallback || title.CaseFallbackFromEnv()),
		title.WithLogger(logger.Named("title")))
	if err != nil {
		return nil, fmt.Errorf("title container: %w", err)
	}
	a.titles = titles
	if cfg.Title.WatchChanges {
		if err := titles.Watch(); err != nil {
			a.log.Warn("title watcher disabled", zap.Error(err))
		}
	}

	a.backend = sdlgl.New(logger.Named("sdlgl"))
	fna3d.PrepareWindowAttributes(a.backend, guard)

	interval := fna3d.PresentIntervalImmediate
	if cfg.Graphics.VSync {
		interval = fna3d.PresentIntervalOne
	}
	a.device, err = fna3d.NewDevice(a.backend, guard, fna3d.PresentationParameters{
		BackBufferWidth:      cfg.Graphics.Width,
		BackBufferHeight:     cfg.Graphics.Height,
		BackBufferFormat:     fna3d.SurfaceColor,
		DepthStencilFormat:   fna3d.Depth24Stencil8,
		PresentationInterval: interval,
		IsFullScreen:         cfg.Graphics.Fullscreen,
		WindowTitle:          cfg.Graphics.WindowTitle,
	}, cfg.Graphics.DebugContext, fna3d.WithLogger(logger.Named("fna3d")))
	if err != nil {
		a.titles.Close()
		return nil, fmt.Errorf("graphics device: %w", err)
	}

	// Audio is optional; the client runs silent without an output device.
	if err := a.openAudio(guard); err != nil {
		a.log.Warn("audio disabled", zap.Error(err))
	}
	return a, nil
}

func (a *app) openAudio(guard *threadcheck.Guard) error {
	backend := beepaudio.New(logger.Named("beepaudio"), beepaudio.WithSampleRate(a.cfg.Audio.SampleRate))
	engine, err := faudio.NewEngine(backend, guard, 0, faudio.WithLogger(logger.Named("faudio")))
	if err != nil {
		return err
	}
	master, err := engine.CreateMasteringVoice(faudio.DefaultChannels, uint32(a.cfg.Audio.SampleRate))
	if err != nil {
		engine.Release()
		return err
	}
	volume := a.cfg.Audio.MasterVolume
	if a.cfg.Audio.Muted {
		volume = 0
	}
	if err := master.SetVolume(volume, faudio.CommitNow); err != nil {
		engine.Release()
		return err
	}
	a.audio = engine
	return nil
}

func (a *app) close() {
	if a.audio != nil {
		a.audio.Release()
	}
	a.device.Dispose()
	if err := a.titles.Close(); err != nil {
		a.log.Warn("closing title watcher", zap.Error(err))
	}
}

func (a *app) run(modelName, textureName string) error {
	if modelName != "" {
		if err := a.loadModel(modelName); err != nil {
			return err
		}
	}

	tex, err := a.loadTexture(textureName)
	if err != nil {
		return err
	}
	defer tex.Dispose()

	vb, err := a.device.CreateVertexBuffer(quadDecl, 4, false, fna3d.BufferUsageWriteOnly)
	if err != nil {
		return err
	}
	defer vb.Dispose()
	if err := vb.SetData(0, quadVertices(), fna3d.SetDataNone); err != nil {
		return err
	}

	a.playChime()

	clearColor := math.Vec4{X: 0.1, Y: 0.1, Z: 0.15, W: 1}
	for !a.backend.PollEvents() {
		if err := a.device.Clear(fna3d.ClearAll, clearColor, 1, 0); err != nil {
			return err
		}
		if err := a.device.SetVertexBuffers(0, vb); err != nil {
			return err
		}
		if err := a.device.SetTexture(0, tex); err != nil {
			return err
		}
		if err := a.device.DrawPrimitives(fna3d.TriangleStrip, 0, 2); err != nil {
			return err
		}
		if err := a.device.Present(nil, nil); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) loadModel(name string) error {
	data, err := a.titles.ReadFile(name)
	if err != nil {
		return err
	}
	src, err := formats.ParseBones(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	m, err := model.Build(src)
	if err != nil {
		return fmt.Errorf("building %s: %w", name, err)
	}

	abs := make([]math.Mat4, m.Bones().Len())
	if err := m.CopyAbsoluteBoneTransformsTo(abs); err != nil {
		return err
	}
	for i, b := range m.Bones().All() {
		a.log.Debug("bone",
			zap.Int("index", b.Index()),
			zap.String("name", b.Name()),
			zap.Int("meshes", len(b.Meshes())),
			zap.Any("world_origin", abs[i].Translation()))
	}
	a.log.Info("model loaded",
		zap.String("name", name),
		zap.Int("bones", m.Bones().Len()),
		zap.Int("meshes", len(m.Meshes())))
	return nil
}

// loadTexture decodes name from the title location, or builds a 2x2
// HalfVector4 checker when no name is given.
func (a *app) loadTexture(name string) (*fna3d.Texture2D, error) {
	if name != "" {
		r, err := a.titles.OpenStream(name)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return a.device.Texture2DFromStream(r)
	}

	tex, err := a.device.CreateTexture2D(fna3d.SurfaceHalfVector4, 2, 2, 1, false)
	if err != nil {
		return nil, err
	}
	texels := []packedvector.HalfVector4{
		packedvector.NewHalfVector4(1, 0.5, 0.25, 1),
		packedvector.NewHalfVector4(0.2, 0.2, 0.2, 1),
		packedvector.NewHalfVector4(0.2, 0.2, 0.2, 1),
		packedvector.NewHalfVector4(0.25, 0.5, 1, 1),
	}
	data := make([]byte, 0, 8*len(texels))
	for _, t := range texels {
		data = binary.LittleEndian.AppendUint64(data, t.PackedValue())
	}
	if err := tex.SetData(0, nil, data); err != nil {
		tex.Dispose()
		return nil, err
	}
	return tex, nil
}

func quadVertices() []byte {
	type vertex struct{ x, y, u, v float32 }
	corners := []vertex{
		{-0.5, -0.5, 0, 1},
		{0.5, -0.5, 1, 1},
		{-0.5, 0.5, 0, 0},
		{0.5, 0.5, 1, 0},
	}
	out := make([]byte, 0, quadDecl.Stride*len(corners))
	for _, c := range corners {
		for _, f := range []float32{c.x, c.y, 0, 1} {
			out = binary.LittleEndian.AppendUint32(out, gomath.Float32bits(f))
		}
		out = append(out, 255, 255, 255, 255)
		out = binary.LittleEndian.AppendUint32(out, gomath.Float32bits(c.u))
		out = binary.LittleEndian.AppendUint32(out, gomath.Float32bits(c.v))
	}
	return out
}

// playChime queues a short 440 Hz tone on a one-shot voice.
func (a *app) playChime() {
	if a.audio == nil {
		return
	}
	const rate = 22050
	voice, err := a.audio.CreateSourceVoice(faudio.PCMFormat(1, rate, 16), 0, faudio.DefaultFreqRatio)
	if err != nil {
		a.log.Warn("chime voice", zap.Error(err))
		return
	}
	samples := make([]byte, 0, rate/2)
	for i := range rate / 4 {
		s := gomath.Sin(2*gomath.Pi*440*float64(i)/rate) * 0.3 * (1 - float64(i)/(rate/4))
		samples = binary.LittleEndian.AppendUint16(samples, uint16(int16(s*gomath.MaxInt16)))
	}
	if err := voice.Submit(faudio.Buffer{AudioData: samples, Flags: faudio.EndOfStream}); err != nil {
		a.log.Warn("chime submit", zap.Error(err))
		return
	}
	if err := voice.Start(0, faudio.CommitNow); err != nil {
		a.log.Warn("chime start", zap.Error(err))
	}
}
