package design

// StmtKind tags a procedural Statement's variant.
type StmtKind string

const (
	StmtAssign StmtKind = "assign"
	StmtDelay StmtKind = "delay" // #N
	StmtEvent StmtKind = "event" // @(edge var) or @(var)
	StmtEventList StmtKind = "event-list"
	StmtIf StmtKind = "if"
	StmtRepeat StmtKind = "repeat"
	StmtForever StmtKind = "forever"
	StmtFork StmtKind = "fork"
	StmtDisplay StmtKind = "display"
	StmtFinish StmtKind = "finish"
	StmtBlock StmtKind = "block" // begin/end sequential group
	StmtFOpen StmtKind = "fopen" // LHS = fd var, Path = file path
	StmtFClose StmtKind = "fclose" // FD = expr yielding a file descriptor
	StmtFWrite StmtKind = "fwrite" // $fwrite/$fdisplay against FD
)

// EventTerm is one element of an event-control's sensitivity expression,
// e.g. `posedge clk` or a bare `a` in an implicit/level sensitivity list.
type EventTerm struct {
	Var string `yaml:"var"`
	Edge EdgeKind `yaml:"edge"` // NoEdge for a level term
}

// Statement is one procedural statement. Only the fields relevant to its
// Kind are populated; this mirrors this codebase's habit of one flat
// struct per concept (core/instruction.go's Instruction) rather than an
// interface hierarchy, since Go has no tagged-union sugar.
type Statement struct {
	Kind StmtKind `yaml:"kind"`

	// StmtAssign
	LHS Expr `yaml:"lhs,omitempty"`
	RHS Expr `yaml:"rhs,omitempty"`
	Blocking bool `yaml:"blocking,omitempty"`

	// StmtDelay
	DelayTicks uint64 `yaml:"delay_ticks,omitempty"`

	// StmtEvent / StmtEventList
	Events []EventTerm `yaml:"events,omitempty"`

	// StmtIf
	Cond Expr `yaml:"cond,omitempty"`
	Then []Statement `yaml:"then,omitempty"`
	Else []Statement `yaml:"else,omitempty"`

	// StmtRepeat
	RepeatCount Expr `yaml:"repeat_count,omitempty"`

	// StmtForever / StmtBlock / body of StmtDelay, StmtEvent
	Body []Statement `yaml:"body,omitempty"`

	// StmtFork: each entry is one parallel branch's statement list.
	Branches [][]Statement `yaml:"branches,omitempty"`
	JoinKind string `yaml:"join_kind,omitempty"` // "all" | "any" | "none"

	// StmtDisplay
	Format string `yaml:"format,omitempty"`
	Args []Expr `yaml:"args,omitempty"`

	// StmtFinish
	FinishCode int `yaml:"finish_code,omitempty"`

	// StmtFOpen / StmtFClose / StmtFWrite
	FD Expr `yaml:"fd,omitempty"`
	Path string `yaml:"path,omitempty"`
}

// ProceduralBlockKind names the block header, mirroring
// slang::ProceduralBlockKind.
type ProceduralBlockKind string

const (
	BlockInitial ProceduralBlockKind = "initial"
	BlockFinal ProceduralBlockKind = "final"
	BlockAlwaysComb ProceduralBlockKind = "always_comb"
	BlockAlwaysLatch ProceduralBlockKind = "always_latch"
	BlockAlwaysFF ProceduralBlockKind = "always_ff"
	BlockAlways ProceduralBlockKind = "always" // legacy, classified by the analyzer
)

// ProceduralBlock is one initial/final/always* block in a module body.
type ProceduralBlock struct {
	Kind ProceduralBlockKind `yaml:"kind"`
	Body []Statement `yaml:"body"`
}

// ContinuousAssign is one `assign lhs = rhs;` statement, or an implicit
// net initializer.
type ContinuousAssign struct {
	LHS Expr `yaml:"lhs"`
	RHS Expr `yaml:"rhs"`
}

// InstanceRef is a child module instantiation.
type InstanceRef struct {
	InstanceName string `yaml:"instance_name"`
	DefName string `yaml:"def_name"`
}

// Body is one module definition's elaborated contents: the unit the
// dependency analyzer and module analyzer consume.
type Body struct {
	DefName string `yaml:"def_name"`
	Variables []Variable `yaml:"variables"`
	Ports []Port `yaml:"ports"`
	Assigns []ContinuousAssign `yaml:"assigns"`
	Blocks []ProceduralBlock `yaml:"blocks"`
	Instances []InstanceRef `yaml:"instances"`
}

// Tree is a full elaborated design: one Body per unique definition name,
// plus the name of the top-level instance's definition.
type Tree struct {
	Top string `yaml:"top"`
	Modules map[string]Body `yaml:"modules"`
}
