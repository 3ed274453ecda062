package layout

// Config holds the empirically tuned constants of the layout heuristics.
// The zero value is not useful; start from DefaultConfig.
type Config struct {
	// ThresholdDivisor derives the significant-difference threshold from the
	// scan resolution: theta = dpi / ThresholdDivisor (20 gives ~1.27 mm).
	ThresholdDivisor int `yaml:"threshold_divisor"`

	// MinLineHeightRatio marks lines shorter than this fraction of the mean
	// line height as undersized noise.
	MinLineHeightRatio float64 `yaml:"min_line_height_ratio"`

	// NoiseIndentRatio excludes lines indented by more than this fraction of
	// the block width from line-start statistics.
	NoiseIndentRatio float64 `yaml:"noise_indent_ratio"`

	// LineStartMinLines is the number of qualifying lines a paragraph needs
	// before the line-start strategy may split it.
	LineStartMinLines int `yaml:"line_start_min_lines"`

	// LineStartLargeLines is the line count from which LineStartLargeRatio
	// applies instead of LineStartSmallRatio.
	LineStartLargeLines int `yaml:"line_start_large_lines"`

	// LineStartSmallRatio and LineStartLargeRatio are the majorities one
	// line-start group needs over the other for a split to be trusted.
	LineStartSmallRatio float64 `yaml:"line_start_small_ratio"`
	LineStartLargeRatio float64 `yaml:"line_start_large_ratio"`

	// LineStartAverageParagraphs is the paragraph count from which the
	// line-start strategy compares against average starts instead of the
	// extreme starts.
	LineStartAverageParagraphs int `yaml:"line_start_average_paragraphs"`

	// LineMarginMinParagraphs is the paragraph count the line-margin
	// strategy needs to trust its averages.
	LineMarginMinParagraphs int `yaml:"line_margin_min_paragraphs"`

	// LineMarginRatio is the multiple of the average line margin a gap must
	// reach to separate paragraphs.
	LineMarginRatio float64 `yaml:"line_margin_ratio"`

	// LineDistanceMinLines is the minimum paragraph size for the
	// line-distance strategy.
	LineDistanceMinLines int `yaml:"line_distance_min_lines"`

	// LineDistanceRatio is the multiple of the mean baseline distance at
	// which a new paragraph starts.
	LineDistanceRatio float64 `yaml:"line_distance_ratio"`

	// EnableLineMargin adds the line-margin strategy to the default pipeline,
	// between the line-start and line-distance strategies.
	EnableLineMargin bool `yaml:"enable_line_margin"`
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		ThresholdDivisor:           20,
		MinLineHeightRatio:         0.5,
		NoiseIndentRatio:           1.0 / 3.0,
		LineStartMinLines:          4,
		LineStartLargeLines:        10,
		LineStartSmallRatio:        2.0,
		LineStartLargeRatio:        1.5,
		LineStartAverageParagraphs: 3,
		LineMarginMinParagraphs:    3,
		LineMarginRatio:            1.5,
		LineDistanceMinLines:       5,
		LineDistanceRatio:          1.25,
		EnableLineMargin:           false,
	}
}

// Threshold returns the significant-difference threshold in pixels at dpi.
func (c Config) Threshold(dpi int) int {
	d := c.ThresholdDivisor
	if d <= 0 {
		d = 20
	}
	return dpi / d
}
