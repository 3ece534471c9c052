package component

// FlockManager holds tunables shared by many units.
type FlockManager struct {
	CellSize           float64
	PerceptionRadius   float64
	FieldOfView        float64 // radians, half-angle of the view cone
	AlignmentBias      float64
	SeparationBias     float64
	CohesionBias       float64
	AcceptanceDistance float64
	CollisionRange     float64
	CollisionForce     float64
	MaxToCollide       int
	MaxPerceived       int
}

// Rules holds the combat and timing constants of the movement core.
type Rules struct {
	AttackDistance float64
	// Enemies closer than ShortCircuitRatio*AttackDistance end the scan at once.
	ShortCircuitRatio      float64
	CongestionRangeFactor  float64
	StopAnimationTime      float64
	GroundIntervalMin      float64
	GroundIntervalMax      float64
	CollisionIntervalMin   float64
	CollisionIntervalMax   float64
	NonCombatAllyLimit     int
	HeightSmoothingRate    float64
	MaxStep                float64 // seconds
	CentroidWeight         float64
	CentroidDistanceMin    float64
	CentroidDistanceMax    float64
	InactiveAcceptanceRate float64 // fraction of AcceptanceDistance used outside formation
}

// DefaultRules mirrors the constants the movement core was tuned with.
func DefaultRules() Rules {
	return Rules{
		AttackDistance:         2,
		ShortCircuitRatio:      0.5,
		CongestionRangeFactor:  2.5,
		StopAnimationTime:      0.3,
		GroundIntervalMin:      0.3,
		GroundIntervalMax:      1.0,
		CollisionIntervalMin:   0.1,
		CollisionIntervalMax:   0.3,
		NonCombatAllyLimit:     3,
		HeightSmoothingRate:    5,
		MaxStep:                0.5,
		CentroidWeight:         0.5,
		CentroidDistanceMin:    0.2,
		CentroidDistanceMax:    10,
		InactiveAcceptanceRate: 0.8,
	}
}

// DefaultFlockManager is a reasonable infantry profile.
func DefaultFlockManager() FlockManager {
	return FlockManager{
		CellSize:           10,
		PerceptionRadius:   2.5,
		FieldOfView:        2.0,
		AlignmentBias:      0.5,
		SeparationBias:     1.5,
		CohesionBias:       1.0,
		AcceptanceDistance: 0.5,
		CollisionRange:     1.2,
		CollisionForce:     2.0,
		MaxToCollide:       3,
		MaxPerceived:       8,
	}
}
