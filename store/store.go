package store

import (
	"database/sql"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/ByLCY/bookcard/card"
)

// 缓存键名，与各输入框一一对应。
const (
	KeyQuote  = "book-excerpt-quote"
	KeyBook   = "book-excerpt-book"
	KeyAuthor = "book-excerpt-author"
	KeySeal   = "book-excerpt-seal"
)

const schema = `
CREATE TABLE IF NOT EXISTS content_cache (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Store 把侧边栏内容缓存到本地 SQLite。存储不可用不是错误：
// 打开失败时退化为仅内存模式，除一条 debug 日志外对上层完全透明。
type Store struct {
	db  *sql.DB
	mem map[string]string
	log *slog.Logger
}

// Open 在 path 上打开（或创建）缓存。任何失败都回退到内存模式。
func Open(path string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	s := &Store{mem: map[string]string{}, log: log}
	if path == "" {
		return s
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		log.Debug("打开本地缓存失败，退化为内存模式", "path", path, "error", err)
		return s
	}
	if _, err := db.Exec(schema); err != nil {
		log.Debug("初始化缓存表失败，退化为内存模式", "path", path, "error", err)
		db.Close()
		return s
	}
	s.db = db
	return s
}

// Persistent 报告缓存是否落盘。
func (s *Store) Persistent() bool { return s.db != nil }

// Save 写入一个键值。空值删除该键（"空字符串"与"键不存在"是两种状态，
// 由调用方通过 Load 的默认值区分）。
func (s *Store) Save(key, value string) {
	if value == "" {
		delete(s.mem, key)
	} else {
		s.mem[key] = value
	}
	if s.db == nil {
		return
	}
	var err error
	if value == "" {
		_, err = s.db.Exec(`DELETE FROM content_cache WHERE key = ?`, key)
	} else {
		_, err = s.db.Exec(
			`INSERT INTO content_cache(key, value) VALUES(?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	}
	if err != nil {
		s.log.Debug("写入缓存失败", "key", key, "error", err)
	}
}

// Load 读取一个键，键不存在时返回 defaultValue。
func (s *Store) Load(key, defaultValue string) string {
	if s.db != nil {
		var value string
		err := s.db.QueryRow(`SELECT value FROM content_cache WHERE key = ?`, key).Scan(&value)
		switch err {
		case nil:
			return value
		case sql.ErrNoRows:
			return defaultValue
		default:
			s.log.Debug("读取缓存失败", "key", key, "error", err)
			return defaultValue
		}
	}
	if v, ok := s.mem[key]; ok {
		return v
	}
	return defaultValue
}

// SaveContent 逐键保存四段内容。每次内容更新都会调用。
func (s *Store) SaveContent(c card.Content) {
	s.Save(KeyQuote, c.Quote)
	s.Save(KeyBook, c.Book)
	s.Save(KeyAuthor, c.Author)
	s.Save(KeySeal, c.Seal)
}

// LoadContent 在启动时回填四段内容。
func (s *Store) LoadContent() card.Content {
	return card.Content{
		Quote:  s.Load(KeyQuote, ""),
		Book:   s.Load(KeyBook, ""),
		Author: s.Load(KeyAuthor, ""),
		Seal:   s.Load(KeySeal, ""),
	}
}

// Clear 清空全部缓存键。
func (s *Store) Clear() {
	s.mem = map[string]string{}
	if s.db == nil {
		return
	}
	if _, err := s.db.Exec(`DELETE FROM content_cache`); err != nil {
		s.log.Debug("清空缓存失败", "error", err)
	}
}

// Close 关闭底层数据库（内存模式下为空操作）。
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
