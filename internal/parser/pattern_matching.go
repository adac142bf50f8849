package parser

import (
	"fmt"
)

// Pattern represents a pattern in pattern matching.
type Pattern interface {
	Node
	patternNode()
	String() string
}

// LiteralPattern represents a literal pattern (e.g., 42, "hello", true).
type LiteralPattern struct {
	Value *Literal
	Span  Span
}

func (lp *LiteralPattern) GetSpan() Span                      { return lp.Span }
func (lp *LiteralPattern) String() string                     { return lp.Value.String() }
func (lp *LiteralPattern) Accept(visitor Visitor) interface{} { return visitor.VisitLiteralPattern(lp) }
func (lp *LiteralPattern) patternNode()                       {}

// VariablePattern represents a variable pattern that binds a value (e.g., x, name).
type VariablePattern struct {
	Identifier *Identifier
	Type       *BasicType
	Span       Span
}

func (vp *VariablePattern) GetSpan() Span  { return vp.Span }
func (vp *VariablePattern) String() string { return vp.Identifier.Value }
func (vp *VariablePattern) Accept(visitor Visitor) interface{} {
	return visitor.VisitIdentifier(vp.Identifier) // Use existing visitor method
}
func (vp *VariablePattern) patternNode() {}

// ConstructorPattern represents a constructor pattern (e.g., Some(x), Point { x, y }).
type ConstructorPattern struct {
	Constructor *Identifier
	Fields      []Pattern
	Span        Span
}

func (cp *ConstructorPattern) GetSpan() Span  { return cp.Span }
func (cp *ConstructorPattern) String() string { return fmt.Sprintf("%s(...)", cp.Constructor.Value) }
func (cp *ConstructorPattern) Accept(visitor Visitor) interface{} {
	return visitor.VisitIdentifier(cp.Constructor) // Use existing visitor method
}
func (cp *ConstructorPattern) patternNode() {}

// GuardPattern represents a pattern with a guard condition (e.g., x if x > 0).
type GuardPattern struct {
	Pattern   Pattern
	Condition Expression
	Span      Span
}

func (gp *GuardPattern) GetSpan() Span { return gp.Span }
func (gp *GuardPattern) String() string {
	return fmt.Sprintf("%s if %s", gp.Pattern.String(), gp.Condition.String())
}
func (gp *GuardPattern) Accept(visitor Visitor) interface{} { return visitor.VisitGuardPattern(gp) }
func (gp *GuardPattern) patternNode()                       {}

// WildcardPattern represents a wildcard pattern (_).
type WildcardPattern struct {
	Span Span
}

func (wp *WildcardPattern) GetSpan() Span  { return wp.Span }
func (wp *WildcardPattern) String() string { return "_" }
func (wp *WildcardPattern) Accept(visitor Visitor) interface{} {
	return visitor.VisitWildcardPattern(wp)
}
func (wp *WildcardPattern) patternNode() {}

// MatchExpression represents a match expression (extending existing MatchStatement).
type MatchExpression struct {
	Expression Expression
	Arms       []*MatchArm
	Span       Span
}

func (me *MatchExpression) GetSpan() Span  { return me.Span }
func (me *MatchExpression) String() string { return "match expr { ... }" }
func (me *MatchExpression) Accept(visitor Visitor) interface{} {
	// Since VisitMatchExpression doesn't exist, use a generic approach or remove.
	return nil // Placeholder until proper visitor method is added
}
func (me *MatchExpression) expressionNode() {}

// PatternCompiler handles the compilation of patterns into executable code.
type PatternCompiler struct {
	context *CompilationContext
}

type CompilationContext struct {
	// Add compilation context fields as needed.
}

// NewPatternCompiler creates a new pattern compiler.
func NewPatternCompiler() *PatternCompiler {
	return &PatternCompiler{
		context: &CompilationContext{},
	}
}

// CompilePattern compiles a pattern into executable matching logic.
func (pc *PatternCompiler) CompilePattern(pattern Pattern) (*CompiledPattern, error) {
	switch p := pattern.(type) {
	case *LiteralPattern:
		return pc.compileLiteralPattern(p)
	case *VariablePattern:
		return pc.compileVariablePattern(p)
	case *ConstructorPattern:
		return pc.compileConstructorPattern(p)
	case *GuardPattern:
		return pc.compileGuardPattern(p)
	case *WildcardPattern:
		return pc.compileWildcardPattern(p)
	default:
		return nil, fmt.Errorf("unsupported pattern type: %T", pattern)
	}
}

// CompiledPattern represents a compiled pattern.
type CompiledPattern struct {
	MatchCode    string
	Bindings     []string
	Dependencies []string
	IsExhaustive bool
}

func (pc *PatternCompiler) compileLiteralPattern(pattern *LiteralPattern) (*CompiledPattern, error) {
	return &CompiledPattern{
		MatchCode:    fmt.Sprintf("value == %s", pattern.Value.String()),
		Bindings:     []string{},
		IsExhaustive: false,
	}, nil
}

func (pc *PatternCompiler) compileVariablePattern(pattern *VariablePattern) (*CompiledPattern, error) {
	return &CompiledPattern{
		MatchCode:    "true", // Variable patterns always match
		Bindings:     []string{pattern.Identifier.Value},
		IsExhaustive: true,
	}, nil
}

func (pc *PatternCompiler) compileConstructorPattern(pattern *ConstructorPattern) (*CompiledPattern, error) {
	return &CompiledPattern{
		MatchCode:    fmt.Sprintf("isConstructor(%s)", pattern.Constructor.Value),
		Bindings:     []string{},
		IsExhaustive: false,
	}, nil
}

func (pc *PatternCompiler) compileGuardPattern(pattern *GuardPattern) (*CompiledPattern, error) {
	innerPattern, err := pc.CompilePattern(pattern.Pattern)
	if err != nil {
		return nil, err
	}

	return &CompiledPattern{
		MatchCode:    fmt.Sprintf("(%s) && (%s)", innerPattern.MatchCode, pattern.Condition.String()),
		Bindings:     innerPattern.Bindings,
		IsExhaustive: false, // Guard patterns are never exhaustive
	}, nil
}

func (pc *PatternCompiler) compileWildcardPattern(pattern *WildcardPattern) (*CompiledPattern, error) {
	return &CompiledPattern{
		MatchCode:    "true",
		Bindings:     []string{},
		IsExhaustive: true,
	}, nil
}

// ExhaustivenessChecker checks if a set of patterns is exhaustive.
type ExhaustivenessChecker struct {
	typeSystem *TypeSystem
}

type TypeSystem struct {
	// Add type system fields as needed.
}

// NewExhaustivenessChecker creates a new exhaustiveness checker.
func NewExhaustivenessChecker() *ExhaustivenessChecker {
	return &ExhaustivenessChecker{
		typeSystem: &TypeSystem{},
	}
}

// CheckExhaustiveness checks if the given patterns are exhaustive for the given type.
func (ec *ExhaustivenessChecker) CheckExhaustiveness(patterns []Pattern, matchType *BasicType) (*ExhaustivenessResult, error) {
	// Implement exhaustiveness checking logic.
	hasWildcard := false

	for _, pattern := range patterns {
		if _, ok := pattern.(*WildcardPattern); ok {
			hasWildcard = true

			break
		}

		if _, ok := pattern.(*VariablePattern); ok {
			hasWildcard = true

			break
		}
	}

	return &ExhaustivenessResult{
		IsExhaustive:    hasWildcard,
		MissingPatterns: []string{},
		Warnings:        []string{},
	}, nil
}

// ExhaustivenessResult represents the result of exhaustiveness checking.
type ExhaustivenessResult struct {
	MissingPatterns []string
	Warnings        []string
	IsExhaustive    bool
}

// PatternAnalyzer provides analysis capabilities for patterns.
type PatternAnalyzer struct {
	compiler *PatternCompiler
	checker  *ExhaustivenessChecker
}

// NewPatternAnalyzer creates a new pattern analyzer.
func NewPatternAnalyzer() *PatternAnalyzer {
	return &PatternAnalyzer{
		compiler: NewPatternCompiler(),
		checker:  NewExhaustivenessChecker(),
	}
}

// AnalyzeMatch analyzes a match expression for correctness and completeness.
func (pa *PatternAnalyzer) AnalyzeMatch(matchExpr *MatchExpression, matchType *BasicType) (*MatchAnalysis, error) {
	patterns := make([]Pattern, len(matchExpr.Arms))
	for i, arm := range matchExpr.Arms {
		// Convert Expression to Pattern - this would need proper implementation.
		patterns[i] = &WildcardPattern{Span: arm.Span} // Use existing Span field
	}

	exhaustiveness, err := pa.checker.CheckExhaustiveness(patterns, matchType)
	if err != nil {
		return nil, err
	}

	compiledPatterns := make([]*CompiledPattern, len(patterns))

	for i, pattern := range patterns {
		compiled, err := pa.compiler.CompilePattern(pattern)
		if err != nil {
			return nil, err
		}

		compiledPatterns[i] = compiled
	}

	return &MatchAnalysis{
		Exhaustiveness:     exhaustiveness,
		CompiledPatterns:   compiledPatterns,
		OptimizationHints:  []string{},
		PerformanceMetrics: &PerformanceMetrics{},
	}, nil
}

// MatchAnalysis represents the complete analysis of a match expression.
type MatchAnalysis struct {
	Exhaustiveness     *ExhaustivenessResult
	PerformanceMetrics *PerformanceMetrics
	CompiledPatterns   []*CompiledPattern
	OptimizationHints  []string
}

// PerformanceMetrics contains performance-related metrics for pattern matching.
type PerformanceMetrics struct {
	EstimatedComplexity int
	MemoryUsage         int
	OptimizationLevel   int
}
