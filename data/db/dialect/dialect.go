package dialect

import (
	"strconv"
	"strings"

	core "storefront/data/db"
)

// Name 标准化的数据库方言名称
type Name string

const (
	NameMySQL    Name = "mysql"
	NameSQLite   Name = "sqlite"
	NamePostgres Name = "postgres"
	NameUnknown  Name = ""
)

// Dialect 表示当前数据库的方言能力
//
// 只抽象查询后端用到的部分：标识符引号、占位符风格。
type Dialect struct {
	name Name
}

// New 根据字符串构造方言（大小写不敏感）
func New(name string) Dialect {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mysql":
		return Dialect{name: NameMySQL}
	case "sqlite", "sqlite3":
		return Dialect{name: NameSQLite}
	case "postgres", "postgresql", "pgx":
		return Dialect{name: NamePostgres}
	default:
		return Dialect{name: NameUnknown}
	}
}

// FromDatabase 从 IDatabase 实例推断方言
//
// 需要 IDatabase 可选实现 IDialectNameProvider 接口；否则返回 Unknown。
func FromDatabase(db core.IDatabase) Dialect {
	if p, ok := db.(core.IDialectNameProvider); ok {
		return New(p.GetDialectName())
	}
	return Dialect{name: NameUnknown}
}

// Name 返回标准化方言名
func (d Dialect) Name() Name {
	return d.name
}

// QuoteIdentifier 根据方言对标识符加引号
//
// table.column 形式会对每一段分别加引号；MySQL 使用反引号，
// Postgres/SQLite 使用双引号，Unknown 方言原样返回。不负责校验语法。
func (d Dialect) QuoteIdentifier(name string) string {
	if name == "" {
		return ""
	}
	parts := strings.Split(name, ".")
	for i, p := range parts {
		if p == "" {
			continue
		}
		switch d.name {
		case NameMySQL:
			parts[i] = "`" + p + "`"
		case NameSQLite, NamePostgres:
			parts[i] = `"` + p + `"`
		}
	}
	return strings.Join(parts, ".")
}

// Rebind 将通用占位符 ? 转换为方言特定形式
//
// 仅 Postgres 替换为 $1、$2...；简单字符扫描，不识别字符串字面量中的 ?，
// 调用方应始终以参数传值。
func (d Dialect) Rebind(query string) string {
	if d.name != NamePostgres || query == "" {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query) + 4)
	argIndex := 1
	for i := 0; i < len(query); i++ {
		ch := query[i]
		if ch == '?' {
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(argIndex))
			argIndex++
		} else {
			sb.WriteByte(ch)
		}
	}
	return sb.String()
}

// UnicodeLowerFunc SQLite 上按 Unicode 规则转小写的自定义函数，见 data/db/sqlite
const UnicodeLowerFunc = "unicode_lower"

// Lower 返回对 expr 转小写的 SQL 片段
//
// SQLite 内置 LOWER 只处理 ASCII，改用 UnicodeLowerFunc；
// MySQL/Postgres 的 LOWER 已按字符集处理 Unicode。
func (d Dialect) Lower(expr string) string {
	if d.name == NameSQLite {
		return UnicodeLowerFunc + "(" + expr + ")"
	}
	return "LOWER(" + expr + ")"
}

// Placeholders 生成 n 个以逗号分隔的占位符，用于 IN 列表
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// IsSafeIdentifier 判断标识符是否为安全的数据库标识符
//
// 允许 foo、bar_1 与 table.column；每段首字符为 [A-Za-z_]，
// 后续字符为 [A-Za-z0-9_]。足以拒绝空格、引号、分号等注入片段。
func IsSafeIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for _, part := range strings.Split(name, ".") {
		if part == "" {
			return false
		}
		for i := 0; i < len(part); i++ {
			ch := part[i]
			letter := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
			digit := ch >= '0' && ch <= '9'
			if !letter && (i == 0 || !digit) {
				return false
			}
		}
	}
	return true
}
