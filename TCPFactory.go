package serialtcp

var _ Factory = (*TCPFactory)(nil)

// TCPFactory creates TCPSerialPorts that all connect to the same endpoint.
// Ports are created closed. The factory holds no reference to the ports it
// creates.
type TCPFactory struct {
	params *TCPParameters
	config Config
}

// NewTCPFactory returns a TCPFactory for params. Zero fields of cfg take their
// default values.
func NewTCPFactory(params *TCPParameters, cfg Config) *TCPFactory {
	return &TCPFactory{params: params, config: cfg.withDefaults()}
}

// CreateSerial returns a new, closed TCPSerialPort. It never fails.
func (f *TCPFactory) CreateSerial(sp SerialParameters) (SerialPort, error) {
	return f.NewPort(sp), nil
}

// NewPort is CreateSerial without the interface conversion.
func (f *TCPFactory) NewPort(sp SerialParameters) *TCPSerialPort {
	return NewTCPSerialPort(f.params, sp, f.config)
}

// TCPParameters returns the endpoint new ports are bound to.
func (f *TCPFactory) TCPParameters() *TCPParameters {
	return f.params
}

// Config returns the timeouts new ports are created with.
func (f *TCPFactory) Config() Config {
	return f.config
}
