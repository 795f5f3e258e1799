package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Scanner
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003

	// Parser
	SynUnexpectedToken    Code = 2001
	SynExpectIdentifier   Code = 2002
	SynUnclosedParen      Code = 2003
	SynUnclosedBrace      Code = 2004
	SynUnclosedBracket    Code = 2005
	SynBadAssignTarget    Code = 2006
	SynForMissingOf       Code = 2007
	SynUnexpectedTopLevel Code = 2008

	// Analysis
	AnSelfAssignment Code = 3001

	// I/O
	IOLoadFileError Code = 9001
)

func (c Code) String() string {
	switch {
	case c >= 1000 && c < 2000:
		return fmt.Sprintf("LEX%04d", uint16(c))
	case c >= 2000 && c < 3000:
		return fmt.Sprintf("SYN%04d", uint16(c))
	case c >= 3000 && c < 4000:
		return fmt.Sprintf("AN%04d", uint16(c))
	case c >= 9000:
		return fmt.Sprintf("IO%04d", uint16(c))
	default:
		return fmt.Sprintf("DIAG%04d", uint16(c))
	}
}
