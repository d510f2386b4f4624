package dialect

import (
	"strconv"
	"strings"

	core "tablesearch/storage/database"
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
// 目前只抽象搜索查询实际用到的能力：
//   - QuoteIdentifier: 列别名/表名加引号
//   - Rebind: 占位符 ? 的方言形式
//   - RegexpOperator: 正则匹配运算符
type Dialect struct {
	name Name
}

// New 根据 driver 名构造方言（大小写不敏感）
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
	if db == nil {
		return Dialect{name: NameUnknown}
	}
	if p, ok := db.(core.IDialectNameProvider); ok {
		return New(p.GetDialectName())
	}
	return Dialect{name: NameUnknown}
}

// Name 返回标准化方言名
func (d Dialect) Name() Name {
	return d.name
}

// QuoteIdentifier 根据方言对标识符进行转义（如表名/列别名）。
//
// 约定：
//   - 支持 schema.table、table.column 等带点形式，会对每一段分别加引号；
//   - MySQL 使用反引号 `name`，Postgres/SQLite 使用双引号 "name"；
//   - Unknown 方言返回原始字符串，不做修改；
//   - 该方法不负责校验标识符语法，仅负责按方言加引号。
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

// Rebind 将通用占位符 ? 转换为方言特定形式。
//
// 目前仅对 Postgres 做替换，将 ? 依次替换为 $1、$2...；其他方言保持原样。
//
// 限制：简单字符扫描，不区分字符串字面量中的 ?。
// 搜索条件全部以参数绑定，生成的 SQL 中不含字符串字面量，因此不受影响。
func (d Dialect) Rebind(query string) string {
	if query == "" || d.name != NamePostgres {
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

// RegexpOperator 返回正则匹配运算符
//
// Postgres 使用 ~；MySQL 原生支持 REGEXP；SQLite 的 REGEXP 依赖注册的 regexp() 函数
// （见 storage/database/basic）。未知方言按 REGEXP 处理。
func (d Dialect) RegexpOperator() string {
	if d.name == NamePostgres {
		return "~"
	}
	return "REGEXP"
}

// UnboundedLimit 返回"只有 OFFSET 没有 LIMIT"时需要补充的 LIMIT 值，空串表示无需补充
func (d Dialect) UnboundedLimit() string {
	switch d.name {
	case NameSQLite:
		return "-1"
	case NameMySQL:
		return "18446744073709551615"
	default:
		return ""
	}
}
