package hir

// =============================================================================
// Linear Types Implementation and Utilities
// =============================================================================

// Linear type checking and inference utilities

// InferLinearType infers the linear type of an expression
func InferLinearType(expr HIRExpression) (*LinearType, error) {
	// Implementation for linear type inference
	return nil, nil
}

// CheckLinearUsage validates linear type usage according to linear logic rules
func CheckLinearUsage(expr HIRExpression, context *LinearContext) error {
	// Implementation for linear usage checking
	return nil
}

// ConsumeLinearResource marks a linear resource as consumed
func ConsumeLinearResource(resource string, context *LinearContext) error {
	// Implementation for linear resource consumption
	return nil
}

// =============================================================================
// Linear Type Analysis Utilities
// =============================================================================

// AnalyzeLinearUsage analyzes the linear usage patterns in an expression
func AnalyzeLinearUsage(expr HIRExpression, context *LinearContext) error {
	// Implementation for linear usage analysis
	return nil
}

// ValidateLinearConstraints validates linear constraints
func ValidateLinearConstraints(constraints []LinearConstraint, context *LinearContext) error {
	// Implementation for linear constraint validation
	return nil
}

// OptimizeLinearUsage optimizes linear resource usage
func OptimizeLinearUsage(expr HIRExpression, context *LinearContext) (HIRExpression, error) {
	// Implementation for linear usage optimization
	return expr, nil
}

// =============================================================================
// Linear Type Transformations
// =============================================================================

// PromoteToLinear converts a regular type to a linear type
func PromoteToLinear(t TypeInfo, constraints []LinearConstraint) (*LinearType, error) {
	// Implementation for linear type promotion
	return nil, nil
}

// DemoteFromLinear converts a linear type to a regular type (if safe)
func DemoteFromLinear(linearType *LinearType) (TypeInfo, bool) {
	// Implementation for linear type demotion
	return TypeInfo{}, false
}

// ComposeLinearTypes composes multiple linear types
func ComposeLinearTypes(types []*LinearType) (*LinearType, error) {
	// Implementation for linear type composition
	return nil, nil
}

// DecomposeLinearType decomposes a composite linear type
func DecomposeLinearType(linearType *LinearType) ([]*LinearType, error) {
	// Implementation for linear type decomposition
	return nil, nil
}
