package basic

import (
	"database/sql/driver"
	"fmt"
	"regexp"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"modernc.org/sqlite"
)

// 用户输入的正则各不相同，编译结果按 LRU 保留最近使用的一批
const regexpCacheSize = 256

var (
	regexpOnce  sync.Once
	regexpErr   error
	regexpCache *lru.Cache[string, *regexp.Regexp]
)

// registerSQLiteRegexp 注册 regexp(pattern, value)，SQLite 将 `X REGEXP Y` 改写为 regexp(Y, X)。
// 注册对之后新建的连接全局生效，只需执行一次。
func registerSQLiteRegexp() error {
	regexpOnce.Do(func() {
		regexpCache, regexpErr = lru.New[string, *regexp.Regexp](regexpCacheSize)
		if regexpErr != nil {
			return
		}
		regexpErr = sqlite.RegisterDeterministicScalarFunction("regexp", 2, sqliteRegexp)
	})
	return regexpErr
}

func sqliteRegexp(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if args[0] == nil || args[1] == nil {
		return nil, nil
	}
	re, err := compilePattern(valueString(args[0]))
	if err != nil {
		return nil, err
	}
	if re.MatchString(valueString(args[1])) {
		return int64(1), nil
	}
	return int64(0), nil
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	if cached, ok := regexpCache.Get(pattern); ok {
		return cached, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regexp %q: %w", pattern, err)
	}
	regexpCache.Add(pattern, re)
	return re, nil
}

func valueString(v driver.Value) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}
