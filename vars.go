package hiera

// Var is a single context variable passed to hiera as a trailing
// "name=value" token. Names are arbitrary strings; Facter-style keys such
// as "::osfamily" are valid.
type Var struct {
	Name  string
	Value string
}

// Vars stores context variables in insertion order so that every command
// built from the same Vars lists them identically. The zero value is an
// empty, ready-to-use store.
type Vars struct {
	pairs []Var
	index map[string]int
}

// NewVars builds a Vars from the given pairs, last write winning for
// duplicate names.
func NewVars(pairs ...Var) *Vars {
	v := &Vars{}
	for _, p := range pairs {
		v.Set(p.Name, p.Value)
	}
	return v
}

// Set adds the variable or, if the name is already present, updates its
// value in place without changing its position.
func (v *Vars) Set(name, value string) {
	if v.index == nil {
		v.index = make(map[string]int)
	}
	if i, ok := v.index[name]; ok {
		v.pairs[i].Value = value
		return
	}
	v.index[name] = len(v.pairs)
	v.pairs = append(v.pairs, Var{Name: name, Value: value})
}

// Get returns the value for name and whether it is present.
func (v *Vars) Get(name string) (string, bool) {
	if v == nil || v.index == nil {
		return "", false
	}
	i, ok := v.index[name]
	if !ok {
		return "", false
	}
	return v.pairs[i].Value, true
}

// Len reports the number of stored variables.
func (v *Vars) Len() int {
	if v == nil {
		return 0
	}
	return len(v.pairs)
}

// Pairs returns a defensive copy of the variables in insertion order.
func (v *Vars) Pairs() []Var {
	if v == nil || len(v.pairs) == 0 {
		return []Var{}
	}
	out := make([]Var, len(v.pairs))
	copy(out, v.pairs)
	return out
}

func (v *Vars) clone() *Vars {
	out := &Vars{}
	if v == nil {
		return out
	}
	for _, p := range v.pairs {
		out.Set(p.Name, p.Value)
	}
	return out
}
