package config

import "time"

// PlannerConfig bounds itinerary generation and selects where generated
// itineraries are kept until they are saved.
//
// Fields:
//  CacheTTL         – lifetime of a generated itinerary (PLANNER_CACHE_TTL, default 2h).
//  CacheBackend     – "memory" or "redis"; redis falls back to memory without a client.
//  CachePrefix      – Redis key namespace for itineraries.
//  MaxMovies        – upper bound on movie_ids in one request.
//  MaxCombinations  – reject requests whose Cartesian product is larger.
//  FlexMax          – clamp for each flexibility value accepted over HTTP.
//  TopFeasible      – itineraries returned in feasibility mode.
//  TopScored        – itineraries returned in scored mode.
//  GenerateTimeout  – deadline for one generation.
//  DropZeroScore    – discard scored itineraries whose score floored at 0.
type PlannerConfig struct {
	CacheTTL        time.Duration
	CacheBackend    string
	CachePrefix     string
	MaxMovies       int
	MaxCombinations int
	FlexMax         int
	TopFeasible     int
	TopScored       int
	GenerateTimeout time.Duration
	DropZeroScore   bool
}

// LoadPlannerConfig reads the PLANNER_* variables.  Non-positive limits are
// replaced by their defaults.
func LoadPlannerConfig() PlannerConfig {
	c := PlannerConfig{
		CacheTTL:        envDur("PLANNER_CACHE_TTL", 2*time.Hour),
		CacheBackend:    envStr("PLANNER_CACHE_BACKEND", "memory"),
		CachePrefix:     envStr("PLANNER_CACHE_PREFIX", "itinerary"),
		MaxMovies:       envInt("PLANNER_MAX_MOVIES", 8),
		MaxCombinations: envInt("PLANNER_MAX_COMBINATIONS", 50000),
		FlexMax:         envInt("PLANNER_FLEX_MAX", 30),
		TopFeasible:     envInt("PLANNER_TOP_FEASIBLE", 10),
		TopScored:       envInt("PLANNER_TOP_SCORED", 15),
		GenerateTimeout: envDur("PLANNER_GENERATE_TIMEOUT", 10*time.Second),
		DropZeroScore:   envBool("PLANNER_DROP_ZERO_SCORE", false),
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = 2 * time.Hour
	}
	if c.MaxMovies < 1 {
		c.MaxMovies = 8
	}
	if c.MaxCombinations < 1 {
		c.MaxCombinations = 50000
	}
	if c.FlexMax < 0 {
		c.FlexMax = 30
	}
	if c.TopFeasible < 1 {
		c.TopFeasible = 10
	}
	if c.TopScored < 1 {
		c.TopScored = 15
	}
	if c.GenerateTimeout <= 0 {
		c.GenerateTimeout = 10 * time.Second
	}
	if c.CacheBackend != "redis" {
		c.CacheBackend = "memory"
	}
	return c
}
