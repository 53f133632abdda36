package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// audioOut binds the synth to a raylib audio stream. The stream is filled
// from the graphical loop each frame; samples are generated from the latest
// published snapshot so the fill never blocks on the simulation.
type audioOut struct {
	stream     rl.AudioStream
	buf        []float32
	sampleTime float64
	dtSample   float64
}

// InitAudio creates the audio device and stream. Call after the raylib
// window exists and before the first Update.
func (g *Game) InitAudio() {
	rl.InitAudioDevice()
	if !rl.IsAudioDeviceReady() {
		slog.Error("no audio output device, running silent")
		return
	}

	sr := g.cfg.Audio.SampleRate
	out := &audioOut{
		stream:   rl.LoadAudioStream(uint32(sr), 32, 1),
		buf:      make([]float32, g.cfg.Audio.BufferSize),
		dtSample: 1 / float64(sr),
	}
	rl.PlayAudioStream(out.stream)
	g.stream = out

	slog.Info("audio stream started", "sample_rate", sr, "buffer", len(out.buf))
}

// fill pushes buffers while the device wants more. The emergency stop is
// checked per buffer and silences output immediately.
func (a *audioOut) fill(g *Game) {
	for rl.IsAudioStreamProcessed(a.stream) {
		snap := g.world.Latest()

		if snap == nil || g.guard.EmergencyActive() {
			for i := range a.buf {
				a.buf[i] = 0
			}
			rl.UpdateAudioStream(a.stream, a.buf)
			continue
		}

		env := g.lastEnv
		for i := range a.buf {
			s := g.synth.Sample(a.sampleTime, snap.Beat, env, snap.TotalConsciousness, snap.SpeciesCounts)
			a.buf[i] = g.limiter.Apply(s)
			a.sampleTime += a.dtSample
		}
		rl.UpdateAudioStream(a.stream, a.buf)
	}
}

// close stops and unloads the stream.
func (a *audioOut) close() {
	rl.StopAudioStream(a.stream)
	rl.UnloadAudioStream(a.stream)
	rl.CloseAudioDevice()
}
