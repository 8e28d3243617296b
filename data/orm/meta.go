package orm

// FieldMeta 描述字段元信息。
type FieldMeta struct {
	Name       string
	Column     string
	PrimaryKey bool
}

// ModelMeta 描述模型级别元信息。
//
// Fields 非空时作为列白名单：查询后端只允许对其中的列做过滤与排序。
type ModelMeta struct {
	Model  any
	Table  string
	Fields []FieldMeta
}

// HasColumn 判断列是否在白名单中；未声明字段时一律放行
func (m *ModelMeta) HasColumn(column string) bool {
	if m == nil || len(m.Fields) == 0 {
		return true
	}
	for _, f := range m.Fields {
		if f.Column == column || f.Name == column {
			return true
		}
	}
	return false
}

// PrimaryKey 主键列名，未声明时返回 "id"
func (m *ModelMeta) PrimaryKey() string {
	if m != nil {
		for _, f := range m.Fields {
			if f.PrimaryKey {
				return f.Column
			}
		}
	}
	return "id"
}
