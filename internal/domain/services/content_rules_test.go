package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ochairo/assetverify/internal/domain/entities"
)

func TestMatchRule(t *testing.T) {
	tests := []struct {
		name    string
		content string
		rule    entities.ContentRule
		want    bool
	}{
		{
			name:    "stat match on target line",
			content: "header\n总用户数：1000\n",
			rule:    entities.ContentRule{Type: entities.RuleStatMatch, Target: "总用户数：", Expected: "1000"},
			want:    true,
		},
		{
			name:    "stat mismatch",
			content: "总用户数：999\n",
			rule:    entities.ContentRule{Type: entities.RuleStatMatch, Target: "总用户数：", Expected: "1000"},
			want:    false,
		},
		{
			name:    "stat uses first number on line",
			content: "总用户数：1000.5 (2026)\n",
			rule:    entities.ContentRule{Type: entities.RuleStatMatch, Target: "总用户数：", Expected: "1000"},
			want:    false,
		},
		{
			name:    "stat decimal",
			content: "转化率 12.5%\n",
			rule:    entities.ContentRule{Type: entities.RuleStatMatch, Target: "转化率", Expected: "12.5"},
			want:    true,
		},
		{
			name:    "stat ignores numbers on other lines",
			content: "1000\n总用户数：未知\n",
			rule:    entities.ContentRule{Type: entities.RuleStatMatch, Target: "总用户数：", Expected: "1000"},
			want:    false,
		},
		{
			name:    "stat second matching line",
			content: "总用户数：0\n总用户数：1000\n",
			rule:    entities.ContentRule{Type: entities.RuleStatMatch, Target: "总用户数：", Expected: "1000"},
			want:    true,
		},
		{
			name:    "regex match",
			content: "报告日期：2026-10-01",
			rule:    entities.ContentRule{Type: entities.RuleRegexMatch, Target: "报告日期", Expected: `\d{4}-\d{2}-\d{2}`},
			want:    true,
		},
		{
			name:    "regex no match",
			content: "报告日期：十月",
			rule:    entities.ContentRule{Type: entities.RuleRegexMatch, Target: "报告日期", Expected: `\d{4}-\d{2}-\d{2}`},
			want:    false,
		},
		{
			name:    "text match",
			content: "审核状态：已批准",
			rule:    entities.ContentRule{Type: entities.RuleTextMatch, Target: "审核状态", Expected: "审核状态：已批准"},
			want:    true,
		},
		{
			name:    "text mismatch",
			content: "审核状态：待定",
			rule:    entities.ContentRule{Type: entities.RuleTextMatch, Target: "审核状态", Expected: "审核状态：已批准"},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatchRule(tt.content, tt.rule)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchRule_Errors(t *testing.T) {
	_, err := MatchRule("x", entities.ContentRule{Type: entities.RuleRegexMatch, Expected: "("})
	assert.Error(t, err)

	_, err = MatchRule("x", entities.ContentRule{Type: "fuzzy", Expected: "x"})
	assert.Error(t, err)
}
