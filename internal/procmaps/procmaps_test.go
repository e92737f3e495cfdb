package procmaps

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `00400000-00452000 r-xp 00000000 08:02 173521      /usr/bin/dbus-daemon
00651000-00652000 r--p 00051000 08:02 173521      /usr/bin/dbus-daemon
7f2c4e6a1000-7f2c4e6a2000 rwxp 00000000 00:00 0
7ffe4b5b4000-7ffe4b5d5000 rw-p 00000000 00:00 0                          [stack]
7f2c4e6a3000-7f2c4e6a4000 rw-s 00000000 00:05 42 /memfd:a name (deleted)

`

func TestParse(t *testing.T) {
	mappings, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, mappings, 5)

	text := mappings[0]
	assert.Equal(t, uintptr(0x400000), text.Start)
	assert.Equal(t, uintptr(0x452000), text.End)
	assert.True(t, text.Read)
	assert.False(t, text.Write)
	assert.True(t, text.Exec)
	assert.True(t, text.Private)
	assert.Equal(t, "08:02", text.Dev)
	assert.Equal(t, uint64(173521), text.Inode)
	assert.Equal(t, "/usr/bin/dbus-daemon", text.Path)

	assert.Equal(t, uint64(0x51000), mappings[1].Offset)

	anon := mappings[2]
	assert.True(t, anon.RWX())
	assert.Empty(t, anon.Path)

	assert.Equal(t, "[stack]", mappings[3].Path)

	shared := mappings[4]
	assert.True(t, shared.Shared)
	assert.False(t, shared.Private)
	assert.Equal(t, "/memfd:a name (deleted)", shared.Path)
}

func TestParse_Malformed(t *testing.T) {
	for _, line := range []string{
		"00400000 r-xp 00000000 08:02 1",
		"zz-00452000 r-xp 00000000 08:02 1",
		"00400000-00452000 r-qp 00000000 08:02 1",
		"00400000-00452000 r-xp 00000000 08:02",
		"00400000-00452000 r-xp 00000000 08:02 abc",
	} {
		_, err := Parse(strings.NewReader(line))
		assert.Error(t, err, line)
	}
}

func TestFind(t *testing.T) {
	mappings, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	m, ok := Find(mappings, 0x7f2c4e6a1800)
	require.True(t, ok)
	assert.True(t, m.RWX())

	_, ok = Find(mappings, 0x7f2c4e6a2000)
	assert.False(t, ok)
}
