package gpu

// Context is the binding state draw code works against. It forwards every
// call to its Device and records what is bound; it never skips a call.
type Context struct {
	dev      Device
	program  uint32
	vao      uint32
	textures map[int]binding
	draws    int
}

type binding struct {
	target Target
	id     uint32
}

// NewContext creates a context over dev.
func NewContext(dev Device) *Context {
	return &Context{
		dev:      dev,
		textures: make(map[int]binding),
	}
}

// Device returns the underlying device.
func (c *Context) Device() Device {
	return c.dev
}

// UseProgram makes program current.
func (c *Context) UseProgram(program uint32) {
	c.dev.UseProgram(program)
	c.program = program
}

// Program returns the current program.
func (c *Context) Program() uint32 {
	return c.program
}

// BindVertexArray binds a vertex array object.
func (c *Context) BindVertexArray(vao uint32) {
	c.dev.BindVertexArray(vao)
	c.vao = vao
}

// VertexArray returns the bound vertex array object.
func (c *Context) VertexArray() uint32 {
	return c.vao
}

// BindTexture binds a texture to a texture unit.
func (c *Context) BindTexture(unit int, target Target, id uint32) {
	c.dev.BindTexture(unit, target, id)
	c.textures[unit] = binding{target: target, id: id}
}

// Texture returns the texture bound to unit, or 0.
func (c *Context) Texture(unit int) uint32 {
	return c.textures[unit].id
}

// DrawElements issues an indexed triangle draw with the bound vertex array.
func (c *Context) DrawElements(count int32) {
	c.dev.DrawElements(count)
	c.draws++
}

// DrawElementsInstanced issues an instanced indexed triangle draw.
func (c *Context) DrawElementsInstanced(count, instances int32) {
	c.dev.DrawElementsInstanced(count, instances)
	c.draws++
}

// Draws returns the number of draw calls since the last ResetStats.
func (c *Context) Draws() int {
	return c.draws
}

// ResetStats clears the draw counter. Call it once per frame.
func (c *Context) ResetStats() {
	c.draws = 0
}
