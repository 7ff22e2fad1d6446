package draw

// An Op represents a Porter-Duff compositing operator.
//
// T. Porter, T. Duff. "Compositing Digital Images", Computer Graphics
// (Proc. SIGGRAPH), 18:3, pp. 253-259, 1984.
type Op int

const (
	Clear Op = 0

	SinD  Op = 8
	DinS  Op = 4
	SoutD Op = 2
	DoutS Op = 1

	S      = SinD | SoutD
	SoverD = SinD | SoutD | DoutS
	SatopD = SinD | DoutS
	SxorD  = SoutD | DoutS

	D      = DinS | DoutS
	DoverS = DinS | DoutS | SoutD
	DatopS = DinS | SoutD
	DxorS  = DoutS | SoutD // == SxorD

	Ncomp = 12
)

// End describes a line or polygon-edge end cap: one of three plain
// values, with no extra arrow geometry.
type End int

const (
	EndSquare End = 0
	EndDisc   End = 1
	EndArrow  End = 2
)
