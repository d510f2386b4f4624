package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

// TestFieldConstructors 测试字段构造函数
func TestFieldConstructors(t *testing.T) {
	tests := []struct {
		name    string
		field   Field
		wantKey string
	}{
		{name: "String字段", field: String("column", "name"), wantKey: "column"},
		{name: "Strings字段", field: Strings("rejected", []string{"a", "b"}), wantKey: "rejected"},
		{name: "Int字段", field: Int("predicates", 3), wantKey: "predicates"},
		{name: "Int64字段", field: Int64("total", 42), wantKey: "total"},
		{name: "Bool字段", field: Bool("regex", true), wantKey: "regex"},
		{name: "Any字段", field: Any("args", []any{1}), wantKey: "args"},
		{name: "Error字段", field: Error(errors.New("test error")), wantKey: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.wantKey {
				t.Errorf("Key = %s, 期望 %s", tt.field.Key, tt.wantKey)
			}
			if tt.field.Value == nil {
				t.Error("Value为nil")
			}
		})
	}
}

// TestFormatValue 测试值格式化
func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "字符串", value: "test", want: "test"},
		{name: "字符串切片", value: []string{"a", "b"}, want: "[a,b]"},
		{name: "错误", value: errors.New("error message"), want: "error message"},
		{name: "整数", value: 123, want: "123"},
		{name: "布尔值", value: true, want: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatValue(tt.value); got != tt.want {
				t.Errorf("formatValue() = %s, 期望 %s", got, tt.want)
			}
		})
	}
}

// TestParseLevel 测试级别解析
func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "debug", want: DebugLevel},
		{in: "INFO", want: InfoLevel},
		{in: "", want: InfoLevel},
		{in: "warning", want: WarnLevel},
		{in: " error ", want: ErrorLevel},
		{in: "verbose", want: InfoLevel, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, 期望 %v", tt.in, got, tt.want)
			}
		})
	}
}

// TestStdLogger_Levels 测试各级别输出格式
func TestStdLogger_Levels(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		log  func(l Logger)
		want []string
	}{
		{
			name: "Debug",
			log:  func(l Logger) { l.Debug(ctx, "debug message", String("key", "value")) },
			want: []string{"[DEBUG]", "debug message", "key=value"},
		},
		{
			name: "Info",
			log:  func(l Logger) { l.Info(ctx, "info message", Int("count", 123)) },
			want: []string{"[INFO]", "info message", "count=123"},
		},
		{
			name: "Warn",
			log:  func(l Logger) { l.Warn(ctx, "warn message", Bool("critical", true)) },
			want: []string{"[WARN]", "warn message", "critical=true"},
		},
		{
			name: "Error",
			log:  func(l Logger) { l.Error(ctx, "error message", Error(errors.New("test error"))) },
			want: []string{"[ERROR]", "error message", "error=test error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewStdLoggerWithWriter("test", &buf))
			output := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(output, w) {
					t.Errorf("输出 %q 不包含 %q", output, w)
				}
			}
		})
	}
}

// TestStdLogger_WithLevel 测试低于最低级别的日志被丢弃
func TestStdLogger_WithLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStdLoggerWithWriter("test", &buf).WithLevel(WarnLevel)
	ctx := context.Background()

	logger.Debug(ctx, "hidden debug")
	logger.Info(ctx, "hidden info")
	logger.Warn(ctx, "shown warn")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("不应输出低级别日志: %q", output)
	}
	if !strings.Contains(output, "shown warn") {
		t.Errorf("缺少 WARN 日志: %q", output)
	}
}

// TestStdLogger_WithFields 测试WithFields
func TestStdLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStdLoggerWithWriter("test", &buf)
	loggerWithFields := logger.WithFields(
		String("table", "users"),
		String("request_id", "r-1"),
	)

	loggerWithFields.Info(context.Background(), "fetch", Int("draw", 2))

	output := buf.String()
	for _, w := range []string{"table=users", "request_id=r-1", "draw=2"} {
		if !strings.Contains(output, w) {
			t.Errorf("输出不包含 %s", w)
		}
	}
}

// TestStdLogger_WithFields_Immutable 测试WithFields不改变原Logger
func TestStdLogger_WithFields_Immutable(t *testing.T) {
	logger := NewStdLogger("test")
	originalFieldsCount := len(logger.fields)

	_ = logger.WithFields(String("k", "v"))

	if len(logger.fields) != originalFieldsCount {
		t.Errorf("原Logger字段被修改: %d != %d", len(logger.fields), originalFieldsCount)
	}
}

// TestGlobalLogger 测试全局Logger设置
func TestGlobalLogger(t *testing.T) {
	original := GetLogger()
	defer SetLogger(original)

	noop := NewNoopLogger()
	SetLogger(noop)
	if GetLogger() != Logger(noop) {
		t.Error("全局Logger未更新")
	}

	SetLogger(nil)
	if GetLogger() != Logger(noop) {
		t.Error("SetLogger(nil) 不应覆盖全局Logger")
	}
}
