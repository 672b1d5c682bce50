package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Unit classification errors

// UnknownUnitTypeError is raised when an observed unit's type tag cannot be
// mapped onto a known category. The mirror cannot continue safely after it.
type UnknownUnitTypeError struct {
	*DomainError
	TypeTag string
	UnitID  int
}

func NewUnknownUnitTypeError(typeTag string, unitID int) *UnknownUnitTypeError {
	return &UnknownUnitTypeError{
		DomainError: &DomainError{Message: fmt.Sprintf("unit %d has unclassifiable type %q", unitID, typeTag)},
		TypeTag:     typeTag,
		UnitID:      unitID,
	}
}

// Construction errors

type ConstructionError struct {
	*DomainError
	BuildingType string
}

func NewConstructionError(message, buildingType string) *ConstructionError {
	return &ConstructionError{
		DomainError:  &DomainError{Message: message},
		BuildingType: buildingType,
	}
}

type InsufficientResourcesError struct {
	*ConstructionError
	RequiredMinerals  int
	RequiredGas       int
	AvailableMinerals int
	AvailableGas      int
}

func NewInsufficientResourcesError(buildingType string, requiredMinerals, requiredGas, availableMinerals, availableGas int) *InsufficientResourcesError {
	return &InsufficientResourcesError{
		ConstructionError: NewConstructionError(
			fmt.Sprintf("insufficient resources for %s: need %d/%d, have %d/%d",
				buildingType, requiredMinerals, requiredGas, availableMinerals, availableGas),
			buildingType,
		),
		RequiredMinerals:  requiredMinerals,
		RequiredGas:       requiredGas,
		AvailableMinerals: availableMinerals,
		AvailableGas:      availableGas,
	}
}

type NoBuildSiteError struct {
	*ConstructionError
	Attempts int
}

func NewNoBuildSiteError(buildingType string, attempts int) *NoBuildSiteError {
	return &NoBuildSiteError{
		ConstructionError: NewConstructionError(
			fmt.Sprintf("no build site for %s after %d attempts", buildingType, attempts),
			buildingType,
		),
		Attempts: attempts,
	}
}

type BuilderLostError struct {
	*ConstructionError
	BuilderID int
}

func NewBuilderLostError(buildingType string, builderID int) *BuilderLostError {
	return &BuilderLostError{
		ConstructionError: NewConstructionError(
			fmt.Sprintf("builder %d for %s was destroyed", builderID, buildingType),
			buildingType,
		),
		BuilderID: builderID,
	}
}

// InvalidTransitionError is returned by lifecycle state machines
type InvalidTransitionError struct {
	*DomainError
	From LifecycleStatus
	To   LifecycleStatus
}

func NewInvalidTransitionError(from, to LifecycleStatus) *InvalidTransitionError {
	return &InvalidTransitionError{
		DomainError: &DomainError{Message: fmt.Sprintf("cannot transition from %s to %s", from, to)},
		From:        from,
		To:          to,
	}
}

// Terrain errors

type TerrainError struct {
	*DomainError
	MapName string
}

func NewTerrainError(mapName, message string) *TerrainError {
	return &TerrainError{
		DomainError: &DomainError{Message: fmt.Sprintf("map %s: %s", mapName, message)},
		MapName:     mapName,
	}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
