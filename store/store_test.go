package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/bookcard/card"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s := Open(filepath.Join(t.TempDir(), "cache.db"), nil)
	require.True(t, s.Persistent())
	t.Cleanup(func() { s.Close() })
	return s
}

func TestContentRoundTrip(t *testing.T) {
	s := openTestStore(t)

	in := card.Content{Quote: "x", Book: "", Author: "y", Seal: ""}
	s.SaveContent(in)

	// 空字符串是合法存储值，与"键不存在"不同：Load 必须原样还原
	assert.Equal(t, in, s.LoadContent())
}

func TestSaveEmptyDeletesKey(t *testing.T) {
	s := openTestStore(t)

	s.Save(KeyQuote, "旧内容")
	assert.Equal(t, "旧内容", s.Load(KeyQuote, "默认"))

	s.Save(KeyQuote, "")
	assert.Equal(t, "默认", s.Load(KeyQuote, "默认"))
}

func TestOverwrite(t *testing.T) {
	s := openTestStore(t)
	s.Save(KeyBook, "第一本")
	s.Save(KeyBook, "第二本")
	assert.Equal(t, "第二本", s.Load(KeyBook, ""))
}

func TestClear(t *testing.T) {
	s := openTestStore(t)
	s.SaveContent(card.Content{Quote: "q", Book: "b", Author: "a", Seal: "s"})
	s.Clear()
	assert.Equal(t, card.Content{}, s.LoadContent())
}

func TestMemoryFallback(t *testing.T) {
	// 空路径表示没有可用存储，应退化为内存模式而不是报错
	s := Open("", nil)
	assert.False(t, s.Persistent())

	s.Save(KeyAuthor, "李白")
	assert.Equal(t, "李白", s.Load(KeyAuthor, ""))
	require.NoError(t, s.Close())
}

func TestUnavailablePathFallsBack(t *testing.T) {
	// 无法创建的路径也必须静默退化，而不是让上层感知到错误
	s := Open(filepath.Join(t.TempDir(), "missing-dir", "x", "cache.db"), nil)
	s.Save(KeySeal, "藏")
	assert.Equal(t, "藏", s.Load(KeySeal, ""))
	s.Close()
}
