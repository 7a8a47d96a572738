package planar

// Cursor addresses one sample of one channel. Movement adds fixed index
// deltas, so a cursor costs nothing to copy and never allocates.
type Cursor struct {
	pix []byte
	i   int
	dx  int
	dy  int
}

func (c *Cursor) Get() uint8  { return c.pix[c.i] }
func (c *Cursor) Set(v uint8) { c.pix[c.i] = v }

func (c *Cursor) Right()    { c.i += c.dx }
func (c *Cursor) RightTwo() { c.i += c.dx << 1 }
func (c *Cursor) Left()     { c.i -= c.dx }
func (c *Cursor) LeftTwo()  { c.i -= c.dx << 1 }
func (c *Cursor) Down()     { c.i += c.dy }
func (c *Cursor) DownTwo()  { c.i += c.dy << 1 }
func (c *Cursor) Up()       { c.i -= c.dy }
func (c *Cursor) UpTwo()    { c.i -= c.dy << 1 }

// Peek returns the sample dx steps right and dy rows down without moving.
func (c *Cursor) Peek(dx, dy int) uint8 {
	return c.pix[c.i+dx*c.dx+dy*c.dy]
}

// Transposed returns a cursor at the same sample whose Right moves down
// and whose Down moves right.
func (c Cursor) Transposed() Cursor {
	c.dx, c.dy = c.dy, c.dx
	return c
}

// Scaled returns a cursor at the same sample that moves n samples per step
// in both directions.
func (c Cursor) Scaled(n int) Cursor {
	c.dx *= n
	c.dy *= n
	return c
}
