package entities

// DefaultVerificationConfig returns the config used when no file is given.
// It checks the analysis report fixture of an example repository.
func DefaultVerificationConfig() *VerificationConfig {
	return &VerificationConfig{
		TargetRepo: "example-repo",
		TargetFile: TargetFile{
			Path:   "docs/analysis-report.md",
			Branch: DefaultBranch,
		},
		RequiredStructures: []string{
			"# 项目分析报告",
			"## 执行摘要",
			"## 详细分析",
			"| 指标 | 数值 |",
			"## 结论",
		},
		ContentRules: []ContentRule{
			{Type: RuleStatMatch, Target: "总用户数：", Expected: "1000"},
			{Type: RuleRegexMatch, Target: "报告日期", Expected: `\d{4}-\d{2}-\d{2}`},
			{Type: RuleTextMatch, Target: "审核状态", Expected: "审核状态：已批准"},
		},
		CommitVerification: &CommitVerification{
			MsgPattern: "更新分析报告",
			MaxCommits: DefaultMaxCommits,
		},
		Fixture: FixtureSpec{
			Files:      DefaultFixtureFiles(),
			EnvKeys:    DefaultEnvKeys(),
			Keyword:    DefaultKeyword,
			MaxCommits: DefaultFixtureHistory,
		},
	}
}
