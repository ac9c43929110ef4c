//go:build !nogl

// Package opengl runs interactive simulations in an OpenGL window.
package opengl

import (
	"embed"
	"fmt"
	"math"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/jasonwebb/diffgrowth"
	"github.com/jasonwebb/diffgrowth/control"
	"gonum.org/v1/gonum/spatial/r2"
)

// Config holds the parameters of the OpenGL driver.
type Config struct {
	Title   string              // window title
	Control *control.Controller // key bindings and simulation loop

	// bounds of default viewport
	Xmin float64
	Ymin float64
	Xmax float64
	Ymax float64
}

// Run runs an interactive simulation in an OpenGL window.
// Besides the controller keys, the mouse wheel zooms and Home resets the viewport.
func Run(conf *Config) error {
	c := conf.Control

	// init GLFW and OpenGL
	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	// create OpenGL window with the aspect ratio of the viewport
	const width = 800
	height := int(math.Round(width * (conf.Ymax - conf.Ymin) / (conf.Xmax - conf.Xmin)))
	w, err := glfw.CreateWindow(width, height, conf.Title, nil, nil)
	if err != nil {
		return err
	}
	defer w.Destroy()
	w.MakeContextCurrent()
	glfw.SwapInterval(1)

	// functions are loaded from the current context
	if err := gl.Init(); err != nil {
		return err
	}

	// initialize OpenGL objects
	d, err := newDisplay(w.GetFramebufferSize())
	if err != nil {
		return err
	}
	defer d.delete()

	// handle scrolling zoom
	home := viewport{{float32(conf.Xmin), float32(conf.Ymin)}, {float32(conf.Xmax), float32(conf.Ymax)}}
	vp := home
	w.SetScrollCallback(func(w *glfw.Window, xo, yo float64) {
		xc, yc := w.GetCursorPos()
		xs, ys := w.GetSize()
		x, y := float32(xc)/float32(xs), float32(yc)/float32(ys)
		dx, dy := vp[1].X-vp[0].X, vp[1].Y-vp[0].Y
		z := 0.05 * float32(yo)
		vp[0].X += z * (x * dx)
		vp[0].Y += z * (y * dy)
		vp[1].X -= z * (1 - x) * dx
		vp[1].Y -= z * (1 - y) * dy
	})

	w.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Release {
			return
		}
		switch key {
		case glfw.KeyEscape:
			c.Key(control.KeyEscape)
		case glfw.KeyRight:
			c.Key(control.KeyRight)
		case glfw.KeyHome:
			vp = home
		}
	})
	w.SetCharCallback(func(w *glfw.Window, r rune) {
		c.Key(r)
	})

	for !(c.Quit() || w.ShouldClose()) {
		c.Tick()
		d.draw(c.World, vp)
		w.SwapBuffers()
		glfw.PollEvents()
	}
	return nil
}

// A viewport is a rectangle delimiting the area of simulation space shown on screen.
// The first point is the top left corner, the second point is the bottom right corner.
type viewport [2]struct{ X, Y float32 }

// A span is a range of vertices drawn by a single call.
type span struct {
	first int32
	count int32
}

// display contains all the OpenGL objects required to display the simulation.
// Frames are drawn into an offscreen framebuffer that is only cleared
// outside of trace mode, then copied to the window.
type display struct {
	prog uint32
	vao  uint32
	vbo  uint32
	fbo  uint32
	rbo  struct {
		color   uint32
		stencil uint32
	}
	uni struct {
		vp        int32 // viewport
		color     int32 // drawing color
		debug     int32 // color by rank
		pointSize int32 // diameter of nodes
	}
	width  int32
	height int32

	verts []float32 // x, y, rank of every vertex of the frame
	items []item
}

// item holds the vertex spans of a path.
type item struct {
	path    *diffgrowth.Path
	nodes   span
	history []span
	bounds  span
}

// draw updates the OpenGL buffers and draws the paths on screen.
func (d *display) draw(w *diffgrowth.World, vp viewport) {
	d.update(w)

	gl.BindFramebuffer(gl.FRAMEBUFFER, d.fbo)
	gl.Viewport(0, 0, d.width, d.height)
	gl.UseProgram(d.prog)
	gl.BindVertexArray(d.vao)
	gl.Uniform2fv(d.uni.vp, 2, &vp[0].X)

	_, bg := palette(w.Display.InvertedColors)
	if !w.Display.Trace {
		gl.ClearColor(bg, bg, bg, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)
	}

	for _, it := range d.items {
		disp := it.path.Display
		fg, _ := palette(disp.InvertedColors)
		stroke, fill := float32(1), float32(1)
		if disp.Trace {
			stroke, fill = 2.0/255, 1.0/255
		}
		d.setDebug(disp.Debug)

		if disp.Fill && it.path.Closed {
			gl.Uniform4f(d.uni.color, fg, fg, fg, fill)
			d.fill(it.nodes)
		}

		gl.Uniform4f(d.uni.color, fg, fg, fg, stroke)
		mode := uint32(gl.LINE_STRIP)
		if it.path.Closed {
			mode = gl.LINE_LOOP
		}
		gl.DrawArrays(mode, it.nodes.first, it.nodes.count)

		if disp.DrawNodes {
			gl.Uniform1f(d.uni.pointSize, 5)
			gl.DrawArrays(gl.POINTS, it.nodes.first, it.nodes.count)
		}

		d.setDebug(false)
		if disp.DrawHistory {
			gl.Uniform4f(d.uni.color, fg, fg, fg, 0.25*stroke)
			for _, h := range it.history {
				gl.DrawArrays(mode, h.first, h.count)
			}
		}
		if disp.ShowBounds && it.bounds.count > 0 {
			gl.Uniform4f(d.uni.color, 1, 0, 0, 1)
			gl.DrawArrays(gl.LINE_LOOP, it.bounds.first, it.bounds.count)
		}
	}

	// copy to the window
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, d.fbo)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BlitFramebuffer(0, 0, d.width, d.height, 0, 0, d.width, d.height, gl.COLOR_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// palette returns the gray levels of the foreground and the background.
func palette(inverted bool) (fg, bg float32) {
	if inverted {
		return 1, 0
	}
	return 0, 1
}

func (d *display) setDebug(on bool) {
	var v int32
	if on {
		v = 1
	}
	gl.Uniform1i(d.uni.debug, v)
}

// fill fills a closed polygon, concave or not, with the stencil buffer:
// pixels covered an odd number of times by its triangle fan are inside.
func (d *display) fill(s span) {
	gl.Enable(gl.STENCIL_TEST)
	gl.StencilMask(1)
	gl.ColorMask(false, false, false, false)
	gl.StencilFunc(gl.ALWAYS, 0, 1)
	gl.StencilOp(gl.KEEP, gl.KEEP, gl.INVERT)
	gl.DrawArrays(gl.TRIANGLE_FAN, s.first, s.count)

	// draw again where the stencil is set, clearing it on the way
	gl.ColorMask(true, true, true, true)
	gl.StencilFunc(gl.EQUAL, 1, 1)
	gl.StencilOp(gl.ZERO, gl.ZERO, gl.ZERO)
	gl.DrawArrays(gl.TRIANGLE_FAN, s.first, s.count)
	gl.Disable(gl.STENCIL_TEST)
}

// update uploads the vertices of every path, history snapshot and bounds.
func (d *display) update(w *diffgrowth.World) {
	d.verts = d.verts[:0]
	d.items = d.items[:0]
	for _, p := range w.Paths {
		it := item{path: p}
		it.nodes = d.add(len(p.Nodes), func(i int) r2.Vec { return p.Nodes[i].Pos })
		if p.Display.DrawHistory {
			for _, h := range p.History {
				it.history = append(it.history, d.add(len(h), func(i int) r2.Vec { return h[i] }))
			}
		}
		switch b := p.Bounds.(type) {
		case diffgrowth.Polygon:
			it.bounds = d.add(len(b), func(i int) r2.Vec { return b[i] })
		case diffgrowth.Rect:
			corners := [...]r2.Vec{b.Min, {X: b.Max.X, Y: b.Min.Y}, b.Max, {X: b.Min.X, Y: b.Max.Y}}
			it.bounds = d.add(len(corners), func(i int) r2.Vec { return corners[i] })
		}
		d.items = append(d.items, it)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	if len(d.verts) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 4*len(d.verts), gl.Ptr(d.verts), gl.STREAM_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// add appends n vertices to the frame.
func (d *display) add(n int, at func(i int) r2.Vec) span {
	s := span{first: int32(len(d.verts) / 3), count: int32(n)}
	for i := 0; i < n; i++ {
		v := at(i)
		d.verts = append(d.verts, float32(v.X), float32(v.Y), float32(i)/float32(n))
	}
	return s
}

// newDisplay compiles shaders and initializes a display
// whose framebuffer has the given size.
func newDisplay(width, height int) (*display, error) {
	d := &display{width: int32(width), height: int32(height)}

	// compile and link shaders
	var err error
	d.prog, err = makeProg([]shader{
		{"Vertex", "shaders/path.vert", gl.CreateShader(gl.VERTEX_SHADER)},
		{"Fragment", "shaders/path.frag", gl.CreateShader(gl.FRAGMENT_SHADER)},
	})
	if err != nil {
		return nil, err
	}

	// uniform location cannot be specified in the shaders in OpenGL 3.3 core
	d.uni.vp = gl.GetUniformLocation(d.prog, gl.Str("vp\x00"))
	d.uni.color = gl.GetUniformLocation(d.prog, gl.Str("color\x00"))
	d.uni.debug = gl.GetUniformLocation(d.prog, gl.Str("debug\x00"))
	d.uni.pointSize = gl.GetUniformLocation(d.prog, gl.Str("pointSize\x00"))

	gl.UseProgram(d.prog)
	gl.Uniform1f(d.uni.pointSize, 1)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Enable(gl.PROGRAM_POINT_SIZE)

	// attribute locations are specified in the shaders with layout(location=n)
	const stride = int32(3 * unsafe.Sizeof(float32(0)))
	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)
	gl.GenBuffers(1, &d.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, nil)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 1, gl.FLOAT, false, stride, gl.PtrOffset(2*4))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	// offscreen framebuffer keeping the previous frames in trace mode
	gl.GenFramebuffers(1, &d.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, d.fbo)
	gl.GenRenderbuffers(1, &d.rbo.color)
	gl.BindRenderbuffer(gl.RENDERBUFFER, d.rbo.color)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.RGBA8, d.width, d.height)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.RENDERBUFFER, d.rbo.color)
	gl.GenRenderbuffers(1, &d.rbo.stencil)
	gl.BindRenderbuffer(gl.RENDERBUFFER, d.rbo.stencil)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, d.width, d.height)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, d.rbo.stencil)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		d.delete()
		return nil, fmt.Errorf("diffgrowth: incomplete framebuffer (status 0x%x)", status)
	}

	return d, nil
}

// delete releases the OpenGL objects of the display.
func (d *display) delete() {
	gl.DeleteFramebuffers(1, &d.fbo)
	gl.DeleteRenderbuffers(1, &d.rbo.color)
	gl.DeleteRenderbuffers(1, &d.rbo.stencil)
	gl.DeleteBuffers(1, &d.vbo)
	gl.DeleteVertexArrays(1, &d.vao)
	gl.DeleteProgram(d.prog)
}

//go:embed shaders
var shaderFS embed.FS

// A shader wraps an OpenGL shader.
type shader struct {
	name   string
	path   string
	shader uint32
}

// makeProg builds OpenGL programs.
func makeProg(shaders []shader) (uint32, error) {
	var fail bool
	for _, s := range shaders {
		src, err := sources(s.path)
		if err != nil {
			return 0, err
		}
		str, free := gl.Strs(src + "\x00")
		gl.ShaderSource(s.shader, 1, str, nil)
		free()
		gl.CompileShader(s.shader)
		var status int32
		gl.GetShaderiv(s.shader, gl.COMPILE_STATUS, &status)
		if status != gl.TRUE {
			var n int32
			gl.GetShaderiv(s.shader, gl.INFO_LOG_LENGTH, &n)
			log := make([]uint8, n+1)
			gl.GetShaderInfoLog(s.shader, n, &n, &log[0])
			fmt.Printf("### %s shader compilation error: %s ###\n\n%s\n\n", s.name, s.path, gl.GoStr(&log[0]))
			fail = true
			gl.DeleteShader(s.shader)
		}
	}
	if fail {
		return 0, fmt.Errorf("diffgrowth: GLSL errors")
	}
	prog := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(prog, s.shader)
	}
	gl.LinkProgram(prog)
	for _, s := range shaders {
		gl.DeleteShader(s.shader)
	}

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status != gl.TRUE {
		return 0, fmt.Errorf("diffgrowth: GLSL link error")
	}
	return prog, nil
}

// sources reads an embedded shader.
func sources(path string) (string, error) {
	b, err := shaderFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
