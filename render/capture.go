package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/ncruces/zenity"
	"github.com/plus3/doppl/ecs"
	"github.com/plus3/doppl/sim"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultCaptureDir    = "screenshots"
	DefaultCaptureFrames = 500
	captureWriters       = 4

	// AskCaptureDir makes ResolveCaptureDir open a folder picker.
	AskCaptureDir = "ask"
)

var ErrCaptureCanceled = errors.New("capture directory selection canceled")

// FramePath is the file frame n is written to.
func FramePath(dir string, n int) string {
	return filepath.Join(dir, fmt.Sprintf("screenshot-%03d.png", n))
}

// ResolveCaptureDir returns dir, or asks the user for one when dir is
// AskCaptureDir.
func ResolveCaptureDir(dir string) (string, error) {
	if dir != AskCaptureDir {
		return dir, nil
	}

	selected, err := zenity.SelectFile(
		zenity.Title("Choose a folder for captured frames"),
		zenity.Directory(),
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", ErrCaptureCanceled
		}
		return "", fmt.Errorf("select capture directory: %w", err)
	}
	return selected, nil
}

// Recorder writes numbered PNG frames into a directory through a bounded pool
// of writers. After the first write error the remaining queued frames are
// dropped and Close reports it.
type Recorder struct {
	dir       string
	maxFrames int

	group   *errgroup.Group
	ctx     context.Context
	next    int
	started bool
}

func NewRecorder(dir string, maxFrames int) *Recorder {
	group, ctx := errgroup.WithContext(context.Background())
	group.SetLimit(captureWriters)
	return &Recorder{
		dir:       dir,
		maxFrames: maxFrames,
		group:     group,
		ctx:       ctx,
	}
}

// Start creates the output directory and arms the recorder.
func (r *Recorder) Start() error {
	if r.started {
		return nil
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create capture directory: %w", err)
	}
	r.started = true
	return nil
}

// Active reports whether the recorder is started and still has frames left.
func (r *Recorder) Active() bool {
	return r.started && r.next < r.maxFrames
}

// Frames is the number of frames queued so far.
func (r *Recorder) Frames() int {
	return r.next
}

func (r *Recorder) Dir() string {
	return r.dir
}

// Save queues img as the next frame. It blocks while every writer is busy.
func (r *Recorder) Save(img image.Image) {
	if !r.Active() {
		return
	}
	path := FramePath(r.dir, r.next)
	r.next++

	r.group.Go(func() error {
		if err := r.ctx.Err(); err != nil {
			return nil
		}
		return writePNG(path, img)
	})
}

// Close waits for queued frames and returns the first write error.
func (r *Recorder) Close() error {
	return r.group.Wait()
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create frame: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// CaptureSystem starts recording when capture is requested and saves the
// canvas every frame until the recorder is full.
type CaptureSystem struct {
	Recorder *Recorder

	Input  ecs.Singleton[sim.Input]
	Target ecs.Singleton[Target]

	finished bool
}

func (s *CaptureSystem) Execute(frame *ecs.UpdateFrame) {
	input := s.Input.Get()
	if input.CapturePressed {
		input.CapturePressed = false
		if err := s.Recorder.Start(); err != nil {
			log.Printf("capture: %v", err)
		} else if s.Recorder.Frames() == 0 {
			log.Printf("capture: recording to %s", s.Recorder.Dir())
		}
	}

	target := s.Target.Get()
	if s.Recorder.Active() && target.Canvas != nil {
		img := image.NewRGBA(target.Canvas.Bounds())
		target.Canvas.ReadPixels(img.Pix)
		s.Recorder.Save(img)
		return
	}

	if s.Recorder.Frames() > 0 && !s.finished {
		s.finished = true
		log.Printf("capture: queued %d frames", s.Recorder.Frames())
	}
}
