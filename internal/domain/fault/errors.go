package fault

import "errors"

// ErrNotExist indicates FuncRet was called with no matching outstanding
// FuncCall record.
var ErrNotExist = errors.New("fault: no matching call record")
