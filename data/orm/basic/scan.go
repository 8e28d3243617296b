package basic

import (
	"fmt"
	"reflect"
	"strings"

	dbcore "storefront/data/db"
)

type fieldInfo struct {
	Column        string
	Index         []int
	PrimaryKey    bool
	AutoIncrement bool
}

type structMeta struct {
	typ          reflect.Type
	fields       []fieldInfo
	columnToInfo map[string]fieldInfo
}

// insertableColumns 返回可用于 INSERT 的列及对应字段，自增主键交给数据库生成
func (sm *structMeta) insertableColumns() ([]string, []fieldInfo) {
	var cols []string
	var fields []fieldInfo
	for _, f := range sm.fields {
		if f.PrimaryKey && f.AutoIncrement {
			continue
		}
		cols = append(cols, f.Column)
		fields = append(fields, f)
	}
	return cols, fields
}

// structMetaForValue 构建或获取指定值类型的 structMeta
func (o *Orm) structMetaForValue(v any) *structMeta {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	o.mu.RLock()
	sm, ok := o.structMap[t]
	o.mu.RUnlock()
	if ok {
		return sm
	}

	sm = buildStructMeta(t)
	o.mu.Lock()
	o.structMap[t] = sm
	o.mu.Unlock()
	return sm
}

func buildStructMeta(t reflect.Type) *structMeta {
	sm := &structMeta{
		typ:          t,
		columnToInfo: make(map[string]fieldInfo),
	}

	var walk func(reflect.Type, []int)
	walk = func(cur reflect.Type, prefix []int) {
		for i := 0; i < cur.NumField(); i++ {
			f := cur.Field(i)
			if !f.IsExported() {
				continue
			}

			index := append(append([]int(nil), prefix...), i)

			// 内嵌结构体（例如 entity.Entity）递归展开
			if f.Anonymous && f.Type.Kind() == reflect.Struct && !isTimeType(f.Type) {
				walk(f.Type, index)
				continue
			}
			if !isScalarDBField(f.Type) {
				continue
			}

			col, pk, auto, skip := parseColumnTag(f)
			if skip {
				continue
			}
			if col == "" {
				col = toSnakeCase(f.Name)
			}

			info := fieldInfo{Column: col, Index: index, PrimaryKey: pk, AutoIncrement: auto}
			sm.fields = append(sm.fields, info)
			sm.columnToInfo[col] = info
		}
	}

	walk(t, nil)
	return sm
}

func isScalarDBField(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if isTimeType(t) {
		return true
	}
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

func isTimeType(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.PkgPath() == "time" && t.Name() == "Time"
}

// parseColumnTag 依次读取 gorm column、db、json 标签；db:"-" 表示不映射
func parseColumnTag(f reflect.StructField) (column string, primaryKey, autoIncrement, skip bool) {
	if gormTag := f.Tag.Get("gorm"); gormTag != "" {
		for _, part := range strings.Split(gormTag, ";") {
			part = strings.TrimSpace(part)
			switch {
			case part == "-":
				return "", false, false, true
			case strings.HasPrefix(part, "column:"):
				column = strings.TrimPrefix(part, "column:")
			case strings.EqualFold(part, "primaryKey"), strings.EqualFold(part, "primary_key"):
				primaryKey = true
			case strings.EqualFold(part, "autoIncrement"):
				autoIncrement = true
			}
		}
	}

	if column == "" {
		if dbTag := f.Tag.Get("db"); dbTag == "-" {
			return "", false, false, true
		} else if dbTag != "" {
			column = dbTag
		} else if jsonTag := f.Tag.Get("json"); jsonTag != "" && jsonTag != "-" {
			column = strings.Split(jsonTag, ",")[0]
		}
	}

	return column, primaryKey, autoIncrement, false
}

// toSnakeCase ProductBrandID -> product_brand_id
func toSnakeCase(s string) string {
	runes := []rune(s)
	var sb strings.Builder
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || nextLower {
				sb.WriteByte('_')
			}
		}
		if upper {
			r += 'a' - 'A'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// scanRowsIntoDest 将 rows 扫描到 dest 中，支持 *T（当前行）或 *[]T（全部行）
func scanRowsIntoDest(rows dbcore.IRows, dest any, o *Orm) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("basic.scanRowsIntoDest: dest must be non-nil pointer")
	}

	elem := rv.Elem()
	switch elem.Kind() {
	case reflect.Slice:
		elemType := elem.Type().Elem()
		for rows.Next() {
			item := reflect.New(elemType).Elem()
			if err := scanOneRow(rows, item, o); err != nil {
				return err
			}
			elem.Set(reflect.Append(elem, item))
		}
		return rows.Err()
	case reflect.Struct:
		return scanOneRow(rows, elem, o)
	default:
		return fmt.Errorf("basic.scanRowsIntoDest: unsupported dest element kind %s", elem.Kind())
	}
}

func scanOneRow(rows dbcore.IRows, v reflect.Value, o *Orm) error {
	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	sm := o.structMetaForValue(v.Addr().Interface())
	destPtrs := make([]any, len(cols))
	for i, col := range cols {
		if sm != nil {
			if fi, ok := sm.columnToInfo[col]; ok {
				if fv := fieldByIndexSafe(v, fi.Index); fv.IsValid() && fv.CanSet() {
					destPtrs[i] = fv.Addr().Interface()
					continue
				}
			}
		}
		var discard any
		destPtrs[i] = &discard
	}
	return rows.Scan(destPtrs...)
}

func fieldByIndexSafe(v reflect.Value, index []int) reflect.Value {
	for _, i := range index {
		if v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return reflect.Value{}
			}
			v = v.Elem()
		}
		if v.Kind() != reflect.Struct || i < 0 || i >= v.NumField() {
			return reflect.Value{}
		}
		v = v.Field(i)
	}
	return v
}
