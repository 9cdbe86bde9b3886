// Package gpu runs mesh tensors on an OpenGL 4.1 core device.
//
// GL calls must come from the thread that created the context. The
// package locks the main goroutine to its OS thread at init, so Open,
// every Backend method and the VertexCache must be used from main.
package gpu

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/internal/logger"
)

func init() {
	runtime.LockOSThread()
}

// ErrUnavailable wraps failures to bring up a GL context.
var ErrUnavailable = errors.New("opengl unavailable")

// Context is a hidden SDL2 window holding a GL context. Nothing is drawn
// to it; it only gives buffer objects a home.
type Context struct {
	window   *sdl.Window
	glCtx    sdl.GLContext
	version  string
	renderer string
}

// Open creates the window and context and loads GL entry points.
func Open() (*Context, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("%w: SDL_Init: %v", ErrUnavailable, err)
	}

	// 4.1 core is the newest profile macOS offers.
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)

	window, err := sdl.CreateWindow("meshkit", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		1, 1, sdl.WINDOW_OPENGL|sdl.WINDOW_HIDDEN)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("%w: SDL_CreateWindow: %v", ErrUnavailable, err)
	}

	glCtx, err := window.GLCreateContext()
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("%w: SDL_GL_CreateContext: %v", ErrUnavailable, err)
	}

	if err := gl.Init(); err != nil {
		sdl.GLDeleteContext(glCtx)
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("%w: gl.Init: %v", ErrUnavailable, err)
	}

	c := &Context{
		window:   window,
		glCtx:    glCtx,
		version:  gl.GoStr(gl.GetString(gl.VERSION)),
		renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
	}
	logger.Info("OpenGL initialized",
		zap.String("version", c.version),
		zap.String("renderer", c.renderer),
	)
	return c, nil
}

// Version returns the GL_VERSION string.
func (c *Context) Version() string { return c.version }

// Renderer returns the GL_RENDERER string.
func (c *Context) Renderer() string { return c.renderer }

// Close destroys the context and shuts SDL down.
func (c *Context) Close() {
	logger.Debug("closing GL context")
	if c.glCtx != nil {
		sdl.GLDeleteContext(c.glCtx)
		c.glCtx = nil
	}
	if c.window != nil {
		c.window.Destroy()
		c.window = nil
	}
	sdl.Quit()
}

// checkError drains the GL error queue and reports the first error.
func checkError(op string) error {
	code := gl.GetError()
	if code == gl.NO_ERROR {
		return nil
	}
	for gl.GetError() != gl.NO_ERROR {
	}
	return fmt.Errorf("gl: %s: error 0x%04x", op, code)
}
