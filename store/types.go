package store

// ComponentKind is the core component taxonomy (§3.2 core group).
type ComponentKind uint8

const (
	KindBox ComponentKind = iota
	KindText
	KindInput
)

// Direction is the flex-container main axis (§3.2 flex container group).
type Direction uint8

const (
	DirectionRow Direction = iota
	DirectionColumn
	DirectionRowReverse
	DirectionColumnReverse
)

// Horizontal reports whether the direction runs along the row axis.
func (d Direction) Horizontal() bool {
	return d == DirectionRow || d == DirectionRowReverse
}

// Reversed reports whether children pack from the end of the axis.
func (d Direction) Reversed() bool {
	return d == DirectionRowReverse || d == DirectionColumnReverse
}

// Wrap is the flex-container wrap mode.
type Wrap uint8

const (
	NoWrap Wrap = iota
	WrapOn
	WrapReverse
)

// Justify is main-axis content justification.
type Justify uint8

const (
	JustifyStart Justify = iota
	JustifyEnd
	JustifyCenter
	JustifySpaceBetween
	JustifySpaceAround
	JustifySpaceEvenly
)

// Align is cross-axis alignment (shared by align-items/align-self/align-content).
type Align uint8

const (
	AlignStretch Align = iota
	AlignStart
	AlignEnd
	AlignCenter
	AlignBaseline
	AlignSpaceBetween
	AlignSpaceAround
)

// DimensionKind tags a dimension's resolution mode (§3.2 dimensions group).
type DimensionKind uint8

const (
	DimAuto DimensionKind = iota
	DimCells
	DimPercent
	DimMinContent
	DimMaxContent
)

// Dimension is one width/height/min/max value.
type Dimension struct {
	Kind  DimensionKind
	Value float64 // cells for DimCells, 0-100 for DimPercent
}

// Auto constructs an auto dimension.
func Auto() Dimension { return Dimension{Kind: DimAuto} }

// Cells constructs an absolute-cell dimension.
func Cells(n float64) Dimension { return Dimension{Kind: DimCells, Value: n} }

// Percent constructs a percent-of-parent dimension.
func Percent(p float64) Dimension { return Dimension{Kind: DimPercent, Value: p} }

// Insets is a four-side spacing value (padding/border width; margin uses
// MarginSide to additionally support "auto").
type Insets struct {
	Top, Right, Bottom, Left float64
}

// MarginSide is one side of a margin, which may be "auto" (absorbs free
// space during alignment, §4.C steps 5-6).
type MarginSide struct {
	Auto  bool
	Value float64
}

// Margin is the four-side margin.
type Margin struct {
	Top, Right, Bottom, Left MarginSide
}

// BorderStyleKind is the glyph table key (§6 border glyph table — must be
// honored exactly).
type BorderStyleKind uint8

const (
	BorderNone BorderStyleKind = iota
	BorderSingle
	BorderDouble
	BorderRounded
	BorderBold
	BorderDashed
	BorderDotted
	BorderASCII
)

// BorderSide is one side's width (0 or 1 cell) and style.
type BorderSide struct {
	Width uint8
	Style BorderStyleKind
	Color Color
}

// Borders groups all four sides plus a container-wide fallback color used
// when a side doesn't specify its own (§4.D step 6 "border color" tier,
// between per-side color and fg).
type Borders struct {
	Top, Right, Bottom, Left BorderSide
	Color                    Color
}

// ColorKind distinguishes ordinary RGBA from the three sentinel forms
// (default, ANSI 256, inherit; §6).
type ColorKind uint8

const (
	ColorRGBA ColorKind = iota
	ColorDefault                  // terminal default ("r=-1")
	ColorANSI256                  // ANSI 256-palette index ("r=-2 g=index")
	ColorInherit                  // resolve from parent chain (§4.D step 4)
)

// Color is the packed visual color representation (§6, DESIGN.md Open
// Question decisions): RGBA in storage, with sentinel kinds for "terminal
// default" and "ANSI 256-color palette entry".
type Color struct {
	Kind    ColorKind
	R, G, B uint8
	A       uint8 // alpha; <255 blends with the parent chain (§4.D step 4)
	Index   uint8 // palette index when Kind == ColorANSI256
}

// RGBA constructs a true-color value with alpha a.
func RGBA(r, g, b, a uint8) Color { return Color{Kind: ColorRGBA, R: r, G: g, B: b, A: a} }

// RGB constructs a fully opaque true-color value.
func RGB(r, g, b uint8) Color { return RGBA(r, g, b, 255) }

// DefaultColor is the terminal-default sentinel.
func DefaultColor() Color { return Color{Kind: ColorDefault, A: 255} }

// InheritColor is the "resolve from ancestor" sentinel, the column default
// for fg/bg so unset components inherit naturally (§4.D step 4).
func InheritColor() Color { return Color{Kind: ColorInherit, A: 255} }

// ANSI256 constructs a palette-indexed color.
func ANSI256(index uint8) Color { return Color{Kind: ColorANSI256, Index: index, A: 255} }

// TextAlign is the text content group's horizontal alignment.
type TextAlign uint8

const (
	TextAlignLeft TextAlign = iota
	TextAlignCenter
	TextAlignRight
)

// TextWrapMode controls how overlong text content is laid out.
type TextWrapMode uint8

const (
	TextWrapNone TextWrapMode = iota
	TextWrapWord
	TextWrapTruncate
)

// TextAttrs is the attribute bitset (bold/dim/italic/underline/blink/
// inverse/hidden/strikethrough).
type TextAttrs uint8

const (
	AttrBold TextAttrs = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrInverse
	AttrHidden
	AttrStrikethrough
)

func (a TextAttrs) Has(flag TextAttrs) bool { return a&flag != 0 }

// Overflow controls scrollability (§4.C step 10).
type Overflow uint8

const (
	OverflowVisible Overflow = iota
	OverflowHidden
	OverflowScroll
	OverflowAuto
)

// Position distinguishes normal flow participants from absolutely
// positioned entities (§4.C step 8).
type Position uint8

const (
	PositionStatic Position = iota
	PositionAbsolute
)

// Inset is the absolute-positioning offset group (top/right/bottom/left,
// each optionally unset).
type Inset struct {
	Top, Right, Bottom, Left     float64
	HasTop, HasRight, HasBottom, HasLeft bool
}

// CursorStyle is the caret rendering mode for focused inputs (§4.D step 8).
type CursorStyle uint8

const (
	CursorBlock CursorStyle = iota
	CursorBar
	CursorUnderline
)

// MouseButton names the button/wheel-direction of a MouseEvent (§6).
type MouseButton uint8

const (
	ButtonNone MouseButton = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
	WheelUp
	WheelDown
	WheelLeft
	WheelRight
)
