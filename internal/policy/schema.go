package policy

// ParamType constrains the value accepted for a policy parameter.
type ParamType string

const (
	ParamTypeBool       ParamType = "boolean"
	ParamTypeInt        ParamType = "integer"
	ParamTypeStringList ParamType = "string_list"
)

// ParamSpec describes a single parameter accepted by a policy strategy.
type ParamSpec struct {
	Key         string
	Type        ParamType
	Required    bool
	Default     interface{}
	Description string
}

// Schema describes the parameters one policy strategy accepts. The factory
// consults it before constructing the strategy, so bad specs surface before
// any module executes.
type Schema struct {
	Policy string
	Params []ParamSpec
}

// Param returns the spec for a key and whether the schema declares it.
func (s Schema) Param(key string) (ParamSpec, bool) {
	for _, p := range s.Params {
		if p.Key == key {
			return p, true
		}
	}
	return ParamSpec{}, false
}

// Catalog returns the parameter schemas of the built-in strategies, keyed
// by policy name.
func Catalog() map[string]Schema {
	return map[string]Schema{
		PolicyStrict: {
			Policy: PolicyStrict,
		},
		PolicyFlexible: {
			Policy: PolicyFlexible,
			Params: []ParamSpec{
				{
					Key:         "requiredDeps",
					Type:        ParamTypeStringList,
					Description: "dependencies that must resolve; omit to require all declared ones",
				},
				{
					Key:         "maxAgeDays",
					Type:        ParamTypeInt,
					Default:     0,
					Description: "staleness ceiling in days for store-sourced data; 0 means unlimited",
				},
			},
		},
		PolicyHybrid: {
			Policy: PolicyHybrid,
			Params: []ParamSpec{
				{
					Key:         "preferWorkflow",
					Type:        ParamTypeBool,
					Default:     true,
					Description: "warn whenever a dependency is satisfied from the store instead of the run",
				},
				{
					Key:         "maxAgeDays",
					Type:        ParamTypeInt,
					Default:     0,
					Description: "staleness ceiling in days for store-sourced data; 0 means unlimited",
				},
			},
		},
	}
}
