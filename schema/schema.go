package schema

import (
	"fmt"
	"reflect"

	lru "github.com/hashicorp/golang-lru/v2"
)

type Context struct {
	tableNaming TableNamingStrategy
	tagName     string

	entityCache *lru.Cache[reflect.Type, *EntityMeta]
	cacheSize   int
	onEvict     func(reflect.Type, *EntityMeta)
}

type Option func(*Context)

// WithTableNaming sets how table names are inferred from struct names.
func WithTableNaming(strategy TableNamingStrategy) Option {
	return func(ctx *Context) { ctx.tableNaming = strategy }
}

// WithTagName sets the struct tag read for column mappings.
func WithTagName(tagName string) Option {
	return func(ctx *Context) { ctx.tagName = tagName }
}

// WithCacheSize sets the LRU cache size for struct metadata
func WithCacheSize(size int) Option {
	return func(ctx *Context) { ctx.cacheSize = size }
}

// WithEvictionCallback sets a callback function for cache eviction events
func WithEvictionCallback(onEvict func(reflect.Type, *EntityMeta)) Option {
	return func(ctx *Context) { ctx.onEvict = onEvict }
}

func New(options ...Option) *Context {
	ctx := &Context{
		tableNaming: NewTableNamingStrategy(TableAsIs),
		tagName:     "db",
		cacheSize:   256,
	}
	for _, opt := range options {
		opt(ctx)
	}

	cache, err := lru.NewWithEvict[reflect.Type, *EntityMeta](ctx.cacheSize, ctx.onEvict)
	if err != nil {
		// only a non-positive size fails
		cache, _ = lru.NewWithEvict[reflect.Type, *EntityMeta](256, ctx.onEvict)
	}
	ctx.entityCache = cache
	return ctx
}

// Introspect returns the metadata for a struct type or pointer to struct type.
func (c *Context) Introspect(t reflect.Type) (*EntityMeta, error) {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: %v is not a struct type", t)
	}

	if meta, ok := c.entityCache.Get(t); ok {
		return meta, nil
	}

	meta := &EntityMeta{
		Type:     t,
		Name:     t.Name(),
		FieldMap: make(map[string]*FieldMeta, t.NumField()),
	}
	c.collectFields(meta, t, nil)
	meta.Table = c.tableName(t)

	c.entityCache.Add(t, meta)
	return meta, nil
}

func (c *Context) collectFields(meta *EntityMeta, t reflect.Type, index []int) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		idx := append(append([]int(nil), index...), i)

		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && !isEligible(sf.Type) {
			c.collectFields(meta, sf.Type, idx)
			continue
		}
		if !sf.IsExported() || !isEligible(sf.Type) {
			continue
		}
		if _, dup := meta.FieldMap[sf.Name]; dup {
			continue
		}

		tag := parseTag(sf.Tag.Get(c.tagName))
		fm := &FieldMeta{
			Name:   sf.Name,
			Column: sf.Name,
			Index:  idx,
			Type:   sf.Type,
			Skip:   tag.Skip,
		}
		if tag.Column != "" {
			fm.Column = tag.Column
		}
		meta.Fields = append(meta.Fields, fm)
		meta.FieldMap[sf.Name] = fm
	}
}

func (c *Context) tableName(t reflect.Type) string {
	if reflect.PointerTo(t).Implements(tableNamerType) {
		return reflect.New(t).Interface().(TableNamer).TableName()
	}
	return c.tableNaming.TableName(t.Name())
}

// CacheLen reports how many entity types are cached.
func (c *Context) CacheLen() int {
	return c.entityCache.Len()
}
