package interp

// Class is a Lox class. Classes are callable: calling one constructs an
// instance.
type Class struct {
	Name       string
	Superclass *Class

	methods map[string]*Function // instance methods and getters
	statics map[string]*Function // class-level methods
}

// FindMethod looks up an instance method or getter along the superclass
// chain. It returns nil if there is none.
func (c *Class) FindMethod(name string) *Function {
	for k := c; k != nil; k = k.Superclass {
		if m, ok := k.methods[name]; ok {
			return m
		}
	}
	return nil
}

// FindStatic looks up a static method along the superclass chain.
func (c *Class) FindStatic(name string) *Function {
	for k := c; k != nil; k = k.Superclass {
		if m, ok := k.statics[name]; ok {
			return m
		}
	}
	return nil
}

// Arity is the arity of init, or 0 without one.
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call allocates an instance and runs init on it, if init exists.
func (c *Class) Call(in *Interpreter, args []Value) (Value, error) {
	inst := NewInstance(c)
	if init := c.FindMethod("init"); init != nil {
		if _, err := init.Bind(inst).Call(in, args); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

func (c *Class) String() string { return c.Name }

// Instance is an object created by calling a class.
type Instance struct {
	class  *Class
	fields map[string]Value
}

// NewInstance creates an instance of c with no fields.
func NewInstance(c *Class) *Instance {
	return &Instance{class: c, fields: make(map[string]Value)}
}

// Class returns the class the instance was constructed from.
func (i *Instance) Class() *Class { return i.class }

// Field returns the value of a field, if set.
func (i *Instance) Field(name string) (Value, bool) {
	v, ok := i.fields[name]
	return v, ok
}

// SetField creates or replaces a field.
func (i *Instance) SetField(name string, v Value) {
	i.fields[name] = v
}

func (i *Instance) String() string { return i.class.Name + " instance" }
