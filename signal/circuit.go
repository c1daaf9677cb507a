package signal

// Bank is the signal storage a circuit model reads its inputs from and
// publishes its outputs to.
type Bank interface {
	Get(name string) Vector
	Set(name string, v Vector)
}

// Circuit is a clocked circuit model. Tick is called once per rising clock
// edge, after every task waiting for that edge has observed the pre-edge
// values.
type Circuit interface {
	Name() string
	Decls() []Decl
	Tick(b Bank)
}
