package game

import (
	"io"
	"time"

	"github.com/hajimehoshi/oto/v2"

	"xmastree/internal/chime"
)

// otoPlayer plays chime buffers on the default audio device.
type otoPlayer struct {
	ctx   *oto.Context
	ready chan struct{}
}

var _ chime.Player = (*otoPlayer)(nil)

func newOtoPlayer() (*otoPlayer, error) {
	ctx, ready, err := oto.NewContext(chime.SampleRate, chime.ChannelCount, oto.FormatFloat32LE)
	if err != nil {
		return nil, err
	}
	return &otoPlayer{ctx: ctx, ready: ready}, nil
}

// Play starts samples in the background. Calls made before the device is
// ready are dropped.
func (p *otoPlayer) Play(samples []byte, volume float64) {
	if len(samples) == 0 {
		return
	}
	select {
	case <-p.ready:
	default:
		return
	}
	go func() {
		player := p.ctx.NewPlayer(&soundReader{data: samples})
		player.SetVolume(volume)
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		player.Close()
	}()
}

type soundReader struct {
	data []byte
	pos  int
}

func (r *soundReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}
