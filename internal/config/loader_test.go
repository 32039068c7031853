package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("SLIDEGEN_TEST_HOST", "db.internal")
	t.Setenv("SLIDEGEN_TEST_EMPTY", "")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "已定义变量被替换",
			in:   "host: ${SLIDEGEN_TEST_HOST}",
			want: "host: db.internal",
		},
		{
			name: "已定义变量优先于默认值",
			in:   "host: ${SLIDEGEN_TEST_HOST:fallback}",
			want: "host: db.internal",
		},
		{
			name: "未定义变量使用默认值",
			in:   "port: ${SLIDEGEN_TEST_MISSING:5432}",
			want: "port: 5432",
		},
		{
			name: "定义为空串时取空串而非默认值",
			in:   "key: ${SLIDEGEN_TEST_EMPTY:fallback}",
			want: "key: ",
		},
		{
			name: "未定义且无默认值时原样保留",
			in:   "token: ${SLIDEGEN_TEST_MISSING}",
			want: "token: ${SLIDEGEN_TEST_MISSING}",
		},
		{
			name: "默认值可为空",
			in:   "token: ${SLIDEGEN_TEST_MISSING:}",
			want: "token: ",
		},
		{
			name: "同一行多个占位符",
			in:   "dsn: ${SLIDEGEN_TEST_HOST}:${SLIDEGEN_TEST_MISSING:5432}",
			want: "dsn: db.internal:5432",
		},
		{
			name: "默认值自身可含冒号",
			in:   "endpoint: ${SLIDEGEN_TEST_MISSING:localhost:4317}",
			want: "endpoint: localhost:4317",
		},
		{
			name: "无占位符原样返回",
			in:   "plain: value",
			want: "plain: value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandEnv(tt.in))
		})
	}
}
