package cache

import (
	"cmp"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"storefront/query"
)

// Key 由查询规格生成规范化的缓存键
//
// 语义相同的请求得到相同的键：排序键与搜索词按提供者的匹配规则归一（小写、去空白），
// 页码与页大小取钳制后的值，过滤条件由 IDs 规范化。
func Key(namespace string, spec query.Spec, filters ...string) string {
	v := url.Values{}
	v.Set("page", strconv.Itoa(spec.PageNumber()))
	v.Set("size", strconv.Itoa(spec.PageSize()))
	if sort := strings.ToLower(spec.SortKey()); sort != "" {
		v.Set("sort", sort)
	}
	if term := strings.ToLower(strings.TrimSpace(spec.SearchTerm())); term != "" {
		v.Set("search", term)
	}
	for _, f := range filters {
		if f == "" {
			continue
		}
		name, values, _ := strings.Cut(f, "=")
		v.Set(name, values)
	}
	return namespace + ":" + v.Encode()
}

// IDs 把一个 ID 集合规范化为 "name=v1,v2"（排序、去重），集合为空时返回空串
func IDs[V cmp.Ordered](name string, ids []V) string {
	if len(ids) == 0 {
		return ""
	}
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = fmt.Sprint(id)
	}
	return name + "=" + strings.Join(parts, ",")
}
