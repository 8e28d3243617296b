// Package sqlite 注册 modernc.org/sqlite 驱动及项目使用的自定义标量函数
//
// SQLite 内置的 LOWER 只处理 ASCII，这里注册的 unicode_lower 与 Go 的
// strings.ToLower 行为一致，使 SQL 后端与内存后端的大小写不敏感匹配结果相同。
// 空导入本包即可：
//
//	import _ "storefront/data/db/sqlite"
package sqlite

import (
	"database/sql/driver"
	"fmt"
	"strings"

	msqlite "modernc.org/sqlite"

	"storefront/data/db/dialect"
)

// DriverName 注册的 database/sql 驱动名
const DriverName = "sqlite"

func init() {
	if err := msqlite.RegisterDeterministicScalarFunction(dialect.UnicodeLowerFunc, 1, unicodeLower); err != nil {
		panic(fmt.Sprintf("sqlite: register %s: %v", dialect.UnicodeLowerFunc, err))
	}
}

// unicodeLower NULL 保持 NULL，其余值按文本转小写
func unicodeLower(_ *msqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return strings.ToLower(fmt.Sprint(v)), nil
	}
}
