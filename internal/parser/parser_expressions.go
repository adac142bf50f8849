package parser

// =============================================================================
// Expression Parsing Helpers
// =============================================================================

// ExpressionParsingHelper provides utility functions for expression parsing
type ExpressionParsingHelper struct {
	parser *Parser
}

// NewExpressionParsingHelper creates a new expression parsing helper
func NewExpressionParsingHelper(p *Parser) *ExpressionParsingHelper {
	return &ExpressionParsingHelper{parser: p}
}

// =============================================================================
// Expression Validation Helpers
// =============================================================================

// validateExpression validates a parsed expression
func (h *ExpressionParsingHelper) validateExpression(expr Expression) error {
	// Implementation for expression validation
	return nil
}

// checkExpressionContext checks if expression is valid in current context
func (h *ExpressionParsingHelper) checkExpressionContext(expr Expression, context string) error {
	// Implementation for context checking
	return nil
}

// optimizeExpression optimizes an expression during parsing
func (h *ExpressionParsingHelper) optimizeExpression(expr Expression) Expression {
	// Implementation for expression optimization
	return expr
}

// =============================================================================
// Expression Error Recovery
// =============================================================================

// recoverFromExpressionError attempts to recover from expression parsing errors
func (h *ExpressionParsingHelper) recoverFromExpressionError() bool {
	// Look for expression recovery points
	return false
}

// suggestExpressionFix suggests fixes for expression errors
func (h *ExpressionParsingHelper) suggestExpressionFix(expectedType string) []Suggestion {
	suggestions := []Suggestion{}

	switch expectedType {
	case "literal":
		suggestions = append(suggestions, Suggestion{
			Type:    ErrorFix,
			Message: "Expected a literal value (number, string, or boolean)",
		})
	case "identifier":
		suggestions = append(suggestions, Suggestion{
			Type:    ErrorFix,
			Message: "Expected an identifier (variable or function name)",
		})
	case "expression":
		suggestions = append(suggestions, Suggestion{
			Type:    ErrorFix,
			Message: "Expected a valid expression",
		})
	}

	return suggestions
}

// =============================================================================
// Expression Pattern Matching
// =============================================================================

// matchExpressionPattern attempts to match an expression against a pattern
func (h *ExpressionParsingHelper) matchExpressionPattern(expr Expression, pattern string) bool {
	// Implementation for expression pattern matching
	return false
}

// extractExpressionInfo extracts information from an expression
func (h *ExpressionParsingHelper) extractExpressionInfo(expr Expression) map[string]interface{} {
	info := make(map[string]interface{})

	// Extract basic information about the expression
	// This would be expanded based on specific Expression types

	return info
}
