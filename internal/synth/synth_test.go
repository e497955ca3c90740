package synth

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	addressRe = regexp.MustCompile(`^0x[0-9a-f]{40}$`)
	hashRe    = regexp.MustCompile(`^0x[0-9a-f]{64}$`)
)

func TestNew_Deterministic(t *testing.T) {
	a := New("block:42")
	b := New("block:42")

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
	assert.Equal(t, a.Hash(), b.Hash())
	assert.Equal(t, a.Address(), b.Address())
}

func TestNew_DistinctKeys(t *testing.T) {
	assert.NotEqual(t, New("block:1").Hash(), New("block:2").Hash())
}

func TestNewf(t *testing.T) {
	assert.Equal(t, New("nfx:7").Hash(), Newf("nfx:%d", 7).Hash())
	assert.Equal(t, "nfx:7", Newf("nfx:%d", 7).Key())
}

func TestShapes(t *testing.T) {
	g := New("shapes")
	assert.Regexp(t, addressRe, g.Address())
	assert.Regexp(t, hashRe, g.Hash())
	assert.Len(t, g.Hex(3), 8)
}

func TestRange(t *testing.T) {
	g := New("range")
	for i := 0; i < 500; i++ {
		v := g.Range(3, 12)
		assert.GreaterOrEqual(t, v, 3)
		assert.LessOrEqual(t, v, 12)
	}
	assert.Equal(t, 5, g.Range(5, 5))
	assert.Equal(t, 0, g.Intn(0))
}

func TestPick(t *testing.T) {
	g := New("pick")
	options := []string{"slash", "jail", "downtime"}
	for i := 0; i < 50; i++ {
		assert.Contains(t, options, Pick(g, options))
	}
}

func TestDigest(t *testing.T) {
	assert.Len(t, Digest([]byte("x")), 64)
	assert.Equal(t, Digest([]byte("x")), Digest([]byte("x")))
}
