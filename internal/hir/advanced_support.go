package hir

import "fmt"

// =============================================================================.
// Advanced Type System Support Structures.
// =============================================================================.

// Additional type checkers for advanced type system components.
type RankNTypeChecker struct {
	Environment *AdvancedTypeEnvironment
	Context     *AdvancedTypeContext
}

type DependentTypeChecker struct {
	Environment *AdvancedTypeEnvironment
	Context     *AdvancedTypeContext
}

type AdvancedEffectChecker struct {
	Environment *AdvancedTypeEnvironment
	Context     *AdvancedTypeContext
}

type LinearTypeChecker struct {
	Environment *AdvancedTypeEnvironment
	Context     *AdvancedTypeContext
}

type RefinementTypeChecker struct {
	Environment *AdvancedTypeEnvironment
	Context     *AdvancedTypeContext
}

type CapabilityChecker struct {
	Environment *AdvancedTypeEnvironment
	Context     *AdvancedTypeContext
}

type AdvancedInferenceEngine struct {
	UnificationEngine *AdvancedUnificationEngine
	ConstraintSolver  *AdvancedConstraintSolver
}

type ProofEngine struct {
	SMTSolver     *SMTSolver
	TacticEngine  *TacticEngine
	LemmaDatabase *LemmaDatabase
}

type SMTSolver struct {
	Timeout int
}

type TacticEngine struct {
	BuiltinTactics map[string]ProofTactic
}

type LemmaDatabase struct {
	Lemmas map[string]ProofLemma
}

// Constructor functions.
func NewRankNTypeChecker(env *AdvancedTypeEnvironment, ctx *AdvancedTypeContext) *RankNTypeChecker {
	return &RankNTypeChecker{Environment: env, Context: ctx}
}

func NewDependentTypeChecker(env *AdvancedTypeEnvironment, ctx *AdvancedTypeContext) *DependentTypeChecker {
	return &DependentTypeChecker{Environment: env, Context: ctx}
}

func NewAdvancedEffectChecker(env *AdvancedTypeEnvironment, ctx *AdvancedTypeContext) *AdvancedEffectChecker {
	return &AdvancedEffectChecker{Environment: env, Context: ctx}
}

func NewLinearTypeChecker(env *AdvancedTypeEnvironment, ctx *AdvancedTypeContext) *LinearTypeChecker {
	return &LinearTypeChecker{Environment: env, Context: ctx}
}

func NewRefinementTypeChecker(env *AdvancedTypeEnvironment, ctx *AdvancedTypeContext) *RefinementTypeChecker {
	return &RefinementTypeChecker{Environment: env, Context: ctx}
}

func NewCapabilityChecker(env *AdvancedTypeEnvironment, ctx *AdvancedTypeContext) *CapabilityChecker {
	return &CapabilityChecker{Environment: env, Context: ctx}
}

func NewAdvancedInferenceEngine() *AdvancedInferenceEngine {
	return &AdvancedInferenceEngine{
		UnificationEngine: NewAdvancedUnificationEngine(),
		ConstraintSolver:  NewAdvancedConstraintSolver(),
	}
}

func NewProofEngine() *ProofEngine {
	return &ProofEngine{
		SMTSolver:     &SMTSolver{Timeout: 5000},
		TacticEngine:  &TacticEngine{BuiltinTactics: make(map[string]ProofTactic)},
		LemmaDatabase: &LemmaDatabase{Lemmas: make(map[string]ProofLemma)},
	}
}

// =============================================================================.
// Type Checker Method Implementations.
// =============================================================================.

// RankN Type Checker Methods.
func (rntc *RankNTypeChecker) ValidateRankConstraint(constraint RankConstraint, rankNType *RankNType) bool {
	// Validate that rank constraint is consistent with type structure.
	return constraint.MinRank <= rankNType.Rank && constraint.MaxRank >= rankNType.Rank
}

func (rntc *RankNTypeChecker) ValidateWellFormedness(rankNType *RankNType) (*TypeValidationResult, error) {
	result := &TypeValidationResult{Valid: true, Errors: []TypeError{}, Warnings: []TypeWarning{}}

	// Check rank is non-negative.
	if rankNType.Rank < 0 {
		result.Valid = false
		result.Errors = append(result.Errors, TypeError{
			Message:  "Rank cannot be negative",
			Severity: SeverityError,
			Code:     ErrorRankMismatch,
		})
	}

	// Check quantifiers are well-formed.
	for i, quantifier := range rankNType.Quantifiers {
		if quantifier.Variable.Name == "" {
			result.Valid = false
			result.Errors = append(result.Errors, TypeError{
				Message:  fmt.Sprintf("Quantifier %d has empty variable name", i),
				Severity: SeverityError,
				Code:     ErrorTypeKindMismatch,
			})
		}
	}

	return result, nil
}

// Dependent Type Checker Methods.
type DependencyValidationResult struct {
	Error string
	Valid bool
}

func (dtc *DependentTypeChecker) CheckValueDependency(dependency ValueDependency, expr HIRExpression) DependencyValidationResult {
	// Check if the dependency is satisfied by the expression.
	switch dependency.Kind {
	case DependencyParameter:
		// Validate parameter dependency.
		return DependencyValidationResult{Valid: true}
	case DependencyIndex:
		// Validate index dependency.
		return DependencyValidationResult{Valid: true}
	default:
		return DependencyValidationResult{Valid: false, Error: "Unknown dependency kind"}
	}
}

type ConstructorValidationResult struct {
	Error string
	Valid bool
}

func (dtc *DependentTypeChecker) ValidateConstructor(constructor DependentConstructor, universe UniverseLevel) ConstructorValidationResult {
	// Validate constructor parameters and universe consistency.
	if constructor.Name == "" {
		return ConstructorValidationResult{Valid: false, Error: "Constructor name cannot be empty"}
	}

	for i, param := range constructor.Parameters {
		if param.Name == "" {
			return ConstructorValidationResult{Valid: false, Error: fmt.Sprintf("Parameter %d has empty name", i)}
		}
	}

	return ConstructorValidationResult{Valid: true}
}

func (dtc *DependentTypeChecker) ValidateUniverseLevel(universe UniverseLevel, expr HIRExpression) bool {
	// Universe levels must be consistent.
	return universe >= 0
}

func (dtc *DependentTypeChecker) ValidateIndex(index DependentIndex, position int, depType *DependentType) bool {
	// Validate index constraints.
	return true // Simplified validation
}

func (dtc *DependentTypeChecker) ValidateWellFormedness(depType *DependentType) (*TypeValidationResult, error) {
	result := &TypeValidationResult{Valid: true, Errors: []TypeError{}, Warnings: []TypeWarning{}}

	// Check universe level.
	if depType.Universe < 0 {
		result.Valid = false
		result.Errors = append(result.Errors, TypeError{
			Message:  "Universe level cannot be negative",
			Severity: SeverityError,
			Code:     ErrorDependencyMismatch,
		})
	}

	return result, nil
}

// Effect Type Checker Methods.
func (aec *AdvancedEffectChecker) CollectEffects(expr HIRExpression) []AdvancedEffect {
	// Collect all effects used in expression.
	effects := []AdvancedEffect{}
	// Traverse expression and collect effects.
	return effects
}

func (aec *AdvancedEffectChecker) IsEffectAllowed(effect AdvancedEffect, effectSet []AdvancedEffect) bool {
	// Check if effect is in allowed set.
	for _, allowedEffect := range effectSet {
		if effect.Name == allowedEffect.Name && effect.Kind == allowedEffect.Kind {
			return true
		}
	}

	return false
}

func (aec *AdvancedEffectChecker) ValidateOperation(operation EffectOperation, effect AdvancedEffect) bool {
	// Validate operation is consistent with effect.
	return operation.Name != "" && operation.ReturnType.Kind != TypeKindInvalid
}

func (aec *AdvancedEffectChecker) ValidateRegionAccess(region RegionInfo, expr HIRExpression) bool {
	// Validate region access permissions.
	return region.Name != ""
}

func (aec *AdvancedEffectChecker) ValidateHandler(handler EffectHandler, effectType *AdvancedEffectType) bool {
	// Validate effect handler.
	return handler.EffectName != ""
}

func (aec *AdvancedEffectChecker) ValidateWellFormedness(effectType *AdvancedEffectType) (*TypeValidationResult, error) {
	result := &TypeValidationResult{Valid: true, Errors: []TypeError{}, Warnings: []TypeWarning{}}

	// Check effects are well-formed.
	for i, effect := range effectType.Effects {
		if effect.Name == "" {
			result.Valid = false
			result.Errors = append(result.Errors, TypeError{
				Message:  fmt.Sprintf("Effect %d has empty name", i),
				Severity: SeverityError,
				Code:     ErrorEffectMismatch,
			})
		}
	}

	return result, nil
}

// Linear Type Checker Methods.
type ResourceUsageResult struct {
	Violations  []string
	ActualUsage int
}

func (ltc *LinearTypeChecker) TrackResourceUsage(expr HIRExpression, linearType *LinearType) ResourceUsageResult {
	// Track how resources are used in expression.
	return ResourceUsageResult{ActualUsage: 1, Violations: []string{}}
}

func (ltc *LinearTypeChecker) ValidateLinearConstraint(constraint LinearConstraint, linearType *LinearType, expr HIRExpression) bool {
	// Validate linear constraint.
	return constraint.Message != ""
}

func (ltc *LinearTypeChecker) DetermineRequiredAccess(expr HIRExpression) AccessPermissions {
	// Determine what access permissions are needed.
	return AccessPermissions{Read: true, Write: false, Move: false, Borrow: false}
}

func (ltc *LinearTypeChecker) HasSufficientAccess(available, required AccessPermissions) bool {
	// Check if available permissions are sufficient.
	return (available.Read || !required.Read) &&
		(available.Write || !required.Write) &&
		(available.Move || !required.Move) &&
		(available.Borrow || !required.Borrow)
}

func (ltc *LinearTypeChecker) ValidateLifetime(lifetime LifetimeInfo, expr HIRExpression) bool {
	// Validate lifetime constraints.
	return lifetime.Kind != LifetimeKind(255) // Invalid lifetime kind
}

func (ltc *LinearTypeChecker) ValidateWellFormedness(linearType *LinearType) (*TypeValidationResult, error) {
	result := &TypeValidationResult{Valid: true, Errors: []TypeError{}, Warnings: []TypeWarning{}}

	// Check multiplicity constraints.
	if linearType.Multiplicity.Min > linearType.Multiplicity.Max {
		result.Valid = false
		result.Errors = append(result.Errors, TypeError{
			Message:  "Minimum multiplicity cannot exceed maximum",
			Severity: SeverityError,
			Code:     ErrorLinearityViolation,
		})
	}

	return result, nil
}

// Refinement Type Checker Methods.
func (rtc *RefinementTypeChecker) ValidateRefinement(refinement Refinement, expr HIRExpression, context RefinementContext) bool {
	// Validate refinement predicate.
	return refinement.Variable != ""
}

func (rtc *RefinementTypeChecker) ValidateContext(context RefinementContext, expr HIRExpression) bool {
	// Validate refinement context.
	return len(context.Definitions) >= 0 // Always valid for now
}

func (rtc *RefinementTypeChecker) ValidateWellFormedness(refinementType *RefinementType) (*TypeValidationResult, error) {
	result := &TypeValidationResult{Valid: true, Errors: []TypeError{}, Warnings: []TypeWarning{}}

	// Check refinements are well-formed.
	for i, refinement := range refinementType.Refinements {
		if refinement.Variable == "" {
			result.Valid = false
			result.Errors = append(result.Errors, TypeError{
				Message:  fmt.Sprintf("Refinement %d has empty variable", i),
				Severity: SeverityError,
				Code:     ErrorRefinementFailure,
			})
		}
	}

	return result, nil
}

// Proof Engine Methods.
type ProofResult struct {
	Error         string
	Success       bool
	RequiredProof bool
}

func (pe *ProofEngine) DischargeObligation(proof ProofObligation, context RefinementContext) ProofResult {
	// Attempt to discharge proof obligation.
	if proof.Status == ProofComplete {
		return ProofResult{Success: true, RequiredProof: false}
	}

	// Try automatic proof.
	if len(proof.Goals) == 0 {
		return ProofResult{Success: true, RequiredProof: false}
	}

	// Require manual proof.
	return ProofResult{Success: false, RequiredProof: true, Error: "Manual proof required"}
}

// Advanced Inference Engine Methods.
func (aie *AdvancedInferenceEngine) InferType(expr HIRExpression, env *AdvancedTypeEnvironment) (TypeInfo, error) {
	// Infer type of expression using type switch.
	switch e := expr.(type) {
	case *HIRLiteral:
		return aie.inferLiteralType(e)
	case *HIRIdentifier:
		return aie.inferVariableType(e, env)
	case *HIRCallExpression:
		return aie.inferFunctionCallType(e, env)
	case *HIRBinaryExpression:
		return aie.inferBinaryExpressionType(e, env)
	default:
		return TypeInfo{Kind: TypeKindInvalid}, fmt.Errorf("type inference not implemented for expression type: %T", expr)
	}
}

func (aie *AdvancedInferenceEngine) inferLiteralType(literal *HIRLiteral) (TypeInfo, error) {
	switch v := literal.Value.(type) {
	case int, int32, int64:
		return TypeInfo{Kind: TypeKindInteger, Name: "Int"}, nil
	case string:
		return TypeInfo{Kind: TypeKindString, Name: "String"}, nil
	case bool:
		return TypeInfo{Kind: TypeKindBoolean, Name: "Bool"}, nil
	case float32, float64:
		return TypeInfo{Kind: TypeKindFloat, Name: "Float"}, nil
	default:
		return TypeInfo{Kind: TypeKindInvalid}, fmt.Errorf("unknown literal type: %T", v)
	}
}

func (aie *AdvancedInferenceEngine) inferVariableType(variable *HIRIdentifier, env *AdvancedTypeEnvironment) (TypeInfo, error) {
	if t, exists := env.ValueBindings[variable.Name]; exists {
		return t, nil
	}

	return TypeInfo{Kind: TypeKindInvalid}, fmt.Errorf("undefined variable: %s", variable.Name)
}

func (aie *AdvancedInferenceEngine) inferFunctionCallType(call *HIRCallExpression, env *AdvancedTypeEnvironment) (TypeInfo, error) {
	// Infer function type and apply to arguments.
	funcType, err := aie.InferType(call.Function, env)
	if err != nil {
		return TypeInfo{Kind: TypeKindInvalid}, err
	}

	if funcType.Kind != TypeKindFunction {
		return TypeInfo{Kind: TypeKindInvalid}, fmt.Errorf("cannot call non-function type: %v", funcType)
	}

	// Return the function's return type (simplified).
	if funcType.Kind != TypeKindFunction {
		return TypeInfo{Kind: TypeKindInvalid}, fmt.Errorf("expected function type, got %s", funcType.Name)
	}

	// For function types, we need to check if it has Methods information.
	if len(funcType.Methods) > 0 {
		// Return the signature type from the method info.
		return funcType.Methods[0].Signature, nil
	}

	// Simple function type case - return a generic type.
	return TypeInfo{Kind: TypeKindInteger, Name: "Int"}, nil
}

func (aie *AdvancedInferenceEngine) inferBinaryExpressionType(binExpr *HIRBinaryExpression, env *AdvancedTypeEnvironment) (TypeInfo, error) {
	leftType, err := aie.InferType(binExpr.Left, env)
	if err != nil {
		return TypeInfo{Kind: TypeKindInvalid}, err
	}

	rightType, err := aie.InferType(binExpr.Right, env)
	if err != nil {
		return TypeInfo{Kind: TypeKindInvalid}, err
	}

	// Unify types and determine result type.
	result, err := aie.UnificationEngine.Unify(leftType, rightType)
	if err != nil || !result.Success {
		return TypeInfo{Kind: TypeKindInvalid}, fmt.Errorf("cannot unify types in binary expression: %v and %v", leftType, rightType)
	}

	return result.UnifiedType, nil
}
