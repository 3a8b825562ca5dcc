package limiter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
		errMsg  string
	}{
		{name: "zero config", cfg: Config{}},
		{name: "limit and offset", cfg: Config{Limit: 5, Offset: 2}},
		{name: "tail only", cfg: Config{Tail: 3}},
		{name: "negative limit", cfg: Config{Limit: -1}, wantErr: true, errMsg: "--limit must be non-negative"},
		{name: "negative offset", cfg: Config{Offset: -2}, wantErr: true, errMsg: "--offset must be non-negative"},
		{name: "negative tail", cfg: Config{Tail: -3}, wantErr: true, errMsg: "--tail must be non-negative"},
		{name: "limit with tail", cfg: Config{Limit: 1, Tail: 1}, wantErr: true, errMsg: "mutually exclusive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestConfigIsActive(t *testing.T) {
	assert.False(t, Config{}.IsActive())
	assert.False(t, Config{Header: true}.IsActive())
	assert.True(t, Config{Limit: 1}.IsActive())
	assert.True(t, Config{Offset: 1}.IsActive())
	assert.True(t, Config{Tail: 1}.IsActive())
}

func TestApply(t *testing.T) {
	rows := []int{0, 1, 2, 3, 4, 5}
	tests := []struct {
		name string
		cfg  Config
		want []int
	}{
		{name: "inactive", cfg: Config{}, want: rows},
		{name: "limit", cfg: Config{Limit: 2}, want: []int{0, 1}},
		{name: "offset", cfg: Config{Offset: 4}, want: []int{4, 5}},
		{name: "offset and limit", cfg: Config{Offset: 1, Limit: 3}, want: []int{1, 2, 3}},
		{name: "limit past end", cfg: Config{Offset: 5, Limit: 10}, want: []int{5}},
		{name: "offset past end", cfg: Config{Offset: 9}, want: []int{}},
		{name: "tail", cfg: Config{Tail: 2}, want: []int{4, 5}},
		{name: "tail larger than input", cfg: Config{Tail: 10}, want: rows},
		{name: "tail ignores offset", cfg: Config{Tail: 1, Offset: 3}, want: []int{5}},
		{name: "header with limit", cfg: Config{Limit: 2, Header: true}, want: []int{0, 1, 2}},
		{name: "header with tail", cfg: Config{Tail: 1, Header: true}, want: []int{0, 5}},
		{name: "header with offset past end", cfg: Config{Offset: 9, Header: true}, want: []int{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(tt.cfg, rows))
		})
	}
}

func TestApplyEmpty(t *testing.T) {
	assert.Nil(t, Apply[[]any](Config{Limit: 1, Header: true}, nil))
}

func TestApplyRows(t *testing.T) {
	rows := [][]any{{"name"}, {"a"}, {"b"}, {"c"}}
	got := Apply(Config{Tail: 2, Header: true}, rows)
	assert.Equal(t, [][]any{{"name"}, {"b"}, {"c"}}, got)
}
