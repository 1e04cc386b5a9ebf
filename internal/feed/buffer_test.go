package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferRemoteAppliesWhenClean(t *testing.T) {
	var b Buffer
	b.Load("v1")
	assert.False(t, b.Dirty())

	assert.True(t, b.ApplyRemote("v2"))
	assert.Equal(t, "v2", b.Text())
	assert.False(t, b.ApplyRemote("v2"), "same text is not a change")
}

func TestBufferLocalEditsWinWhileDirty(t *testing.T) {
	var b Buffer
	b.Load("base")

	b.Edit("local edit")
	assert.True(t, b.Dirty())
	assert.False(t, b.ApplyRemote("remote edit"))
	assert.Equal(t, "local edit", b.Text())

	text, gen := b.Snapshot()
	assert.Equal(t, "local edit", text)
	b.Pushed(gen)
	assert.False(t, b.Dirty())

	assert.True(t, b.ApplyRemote("remote edit"))
	assert.Equal(t, "remote edit", b.Text())
}

func TestBufferEditDuringPushStaysDirty(t *testing.T) {
	var b Buffer
	b.Edit("one")
	_, gen := b.Snapshot()
	b.Edit("two")
	b.Pushed(gen)

	assert.True(t, b.Dirty())
	assert.False(t, b.ApplyRemote("one"))

	_, gen = b.Snapshot()
	b.Pushed(gen)
	assert.False(t, b.Dirty())
}

func TestBufferNoopEdit(t *testing.T) {
	var b Buffer
	b.Load("same")
	b.Edit("same")
	assert.False(t, b.Dirty())
}
