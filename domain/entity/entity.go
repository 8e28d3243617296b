// Package entity 定义目录实体的核心接口
//
// 查询管道只读实体，因此这里只保留标识与自校验两种能力；
// 审计、软删、乐观锁等写路径字段不在此处。
package entity

// IObject 最基础的对象接口，所有实体的根接口
type IObject[T comparable] interface {
	// GetID 返回对象的唯一标识
	GetID() T
}

// INamed 带显示名称的实体，可按名称搜索与排序
type INamed interface {
	GetName() string
}

// IValidatable 可验证接口
type IValidatable interface {
	Validate() error
}

// Entity 通用实体字段（用于嵌入），主键为 int64
type Entity struct {
	ID int64 `json:"id" db:"id"`
}

// GetID 实现 IObject 接口
func (e Entity) GetID() int64 {
	return e.ID
}

// IDs 提取一组实体的主键，保持原有顺序
func IDs[E IObject[int64]](items []E) []int64 {
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.GetID()
	}
	return ids
}
