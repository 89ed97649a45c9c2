package views

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
	"github.com/spaghettifunk/shoreline/engine/systems"
)

func TestRenderWithoutTargets(t *testing.T) {
	f := newFixture(t)
	f.model(t, 0, 0)
	frame, err := f.systems.FrameUpdater.Update(f.camera, 800, 600, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	// the state a rejected resize leaves behind
	f.systems.FramebufferSystem.Destroy()
	f.backend.Reset()

	for _, mode := range []metadata.RenderMode{metadata.RenderModeForward, metadata.RenderModeDeferred} {
		f.pipeline.Mode = mode
		f.pipeline.Water.Enabled = true
		if err := f.pipeline.Render(f.camera, frame); !errors.Is(err, ErrNoRenderTargets) {
			t.Errorf("%s: Render() = %v, want ErrNoRenderTargets", mode, err)
		}
	}
	if n := len(f.backend.Calls); n != 0 {
		t.Errorf("%d backend calls without render targets", n)
	}
}

func TestDisplayPresentsAttachment(t *testing.T) {
	tests := []struct {
		display    metadata.DisplayMode
		mode       metadata.RenderMode
		target     func(fs *systems.FramebufferSystem) *metadata.RenderTarget
		attachment uint32
	}{
		{metadata.DisplayOutput, metadata.RenderModeForward, func(fs *systems.FramebufferSystem) *metadata.RenderTarget { return fs.Forward }, systems.ForwardAttachmentFinal},
		{metadata.DisplayOutput, metadata.RenderModeDeferred, func(fs *systems.FramebufferSystem) *metadata.RenderTarget { return fs.Deferred }, 0},
		{metadata.DisplayAlbedo, metadata.RenderModeDeferred, func(fs *systems.FramebufferSystem) *metadata.RenderTarget { return fs.Forward }, systems.ForwardAttachmentAlbedo},
		{metadata.DisplayNormal, metadata.RenderModeDeferred, func(fs *systems.FramebufferSystem) *metadata.RenderTarget { return fs.Forward }, systems.ForwardAttachmentNormal},
		{metadata.DisplayPosition, metadata.RenderModeDeferred, func(fs *systems.FramebufferSystem) *metadata.RenderTarget { return fs.Forward }, systems.ForwardAttachmentPosition},
		{metadata.DisplaySpecular, metadata.RenderModeForward, func(fs *systems.FramebufferSystem) *metadata.RenderTarget { return fs.Forward }, systems.ForwardAttachmentSpecular},
		{metadata.DisplayFinal, metadata.RenderModeForward, func(fs *systems.FramebufferSystem) *metadata.RenderTarget { return fs.Forward }, systems.ForwardAttachmentFinal},
		{metadata.DisplayDeferred, metadata.RenderModeDeferred, func(fs *systems.FramebufferSystem) *metadata.RenderTarget { return fs.Deferred }, 0},
		{metadata.DisplayReflection, metadata.RenderModeForward, func(fs *systems.FramebufferSystem) *metadata.RenderTarget { return fs.Reflection }, 0},
		{metadata.DisplayRefraction, metadata.RenderModeDeferred, func(fs *systems.FramebufferSystem) *metadata.RenderTarget { return fs.Refraction }, 0},
	}
	for _, tt := range tests {
		t.Run(tt.display.String()+"/"+tt.mode.String(), func(t *testing.T) {
			f := newFixture(t)
			enableWater(f, 0)
			f.pipeline.Mode = tt.mode
			f.pipeline.Display = tt.display
			f.model(t, 0, 0)
			f.render(t)

			blits := f.backend.CallsOf("FramebufferBlit")
			if len(blits) != 1 {
				t.Fatalf("%d blits, want 1", len(blits))
			}
			want := tt.target(f.systems.FramebufferSystem)
			if src := blits[0].Args[0].(metadata.FramebufferHandle); src != want.Framebuffer {
				t.Errorf("blit from framebuffer %d, want %s (%d)", src, want.Name, want.Framebuffer)
			}
			if got := blits[0].Args[1].(uint32); got != tt.attachment {
				t.Errorf("blit attachment %d, want %d", got, tt.attachment)
			}
			if dst := blits[0].Args[2].(metadata.FramebufferHandle); dst != 0 {
				t.Errorf("blit into framebuffer %d, want the window", dst)
			}
		})
	}
}

func TestUnknownDisplay(t *testing.T) {
	f := newFixture(t)
	f.pipeline.Display = metadata.DisplayMode(99)
	frame, err := f.systems.FrameUpdater.Update(f.camera, 800, 600, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.pipeline.Render(f.camera, frame); err == nil {
		t.Error("Render() accepted an unknown display mode")
	}
}

func TestDisplayModeCycle(t *testing.T) {
	d := metadata.DisplayOutput
	seen := map[string]bool{}
	for i := 0; i < 9; i++ {
		name := d.String()
		if seen[name] {
			t.Fatalf("%s shown twice in one cycle", name)
		}
		seen[name] = true
		parsed, err := metadata.ParseDisplayMode(name)
		if err != nil || parsed != d {
			t.Errorf("ParseDisplayMode(%q) = %v, %v", name, parsed, err)
		}
		d = d.Next()
	}
	if d != metadata.DisplayOutput {
		t.Errorf("cycle ended on %s, want output", d)
	}
	if _, err := metadata.ParseDisplayMode("wireframe"); err == nil {
		t.Error("ParseDisplayMode accepted an unknown name")
	}
}
