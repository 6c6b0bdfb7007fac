package protocol

import (
	"encoding/json"
	"fmt"
)

// Module names used by the commands in this repository
const (
	ModuleSystem      = "system"
	ModuleTime        = "time"
	ModuleEmeter      = "emeter"
	ModuleDimmer      = "smartlife.iot.dimmer"
	ModuleLighting    = "smartlife.iot.smartbulb.lightingservice"
	ModuleBulbTime    = "smartlife.iot.common.timesetting"
	ModuleBulbEmeter  = "smartlife.iot.common.emeter"
	MethodGetSysinfo  = "get_sysinfo"
	errCodeKey        = "err_code"
	errMsgKey         = "err_msg"
	contextKey        = "context"
	contextChildIDKey = "child_ids"
)

// DiscoveryQuery is the payload broadcast to find devices.
var DiscoveryQuery = []byte(`{"system":{"get_sysinfo":{}}}`)

// Request is a single module/method call, optionally scoped to strip outlets.
type Request struct {
	Module   string
	Method   string
	Args     map[string]any
	ChildIDs []string
}

// Marshal builds the JSON document for the request.
// Nil args are sent as an empty object, which every firmware accepts.
func (r *Request) Marshal() ([]byte, error) {
	if r.Module == "" || r.Method == "" {
		return nil, fmt.Errorf("request needs module and method (got %q/%q)", r.Module, r.Method)
	}

	args := r.Args
	if args == nil {
		args = map[string]any{}
	}

	doc := map[string]any{
		r.Module: map[string]any{r.Method: args},
	}
	if len(r.ChildIDs) > 0 {
		doc[contextKey] = map[string]any{contextChildIDKey: r.ChildIDs}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request %s.%s: %w", r.Module, r.Method, err)
	}
	return data, nil
}

// DeviceError is an error reported by the device itself (non-zero err_code).
type DeviceError struct {
	Module  string
	Method  string
	Code    int
	Message string
}

// Error implements the error interface
func (e *DeviceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("device error on %s.%s: %s (code %d)", e.Module, e.Method, e.Message, e.Code)
	}
	return fmt.Sprintf("device error on %s.%s (code %d)", e.Module, e.Method, e.Code)
}

// UnwrapResponse extracts module.method from a decrypted response and checks err_code.
func UnwrapResponse(payload []byte, module, method string) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	mod, ok := doc[module].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response has no %q module", module)
	}

	// Unknown modules answer {"module": {"err_code": -1, "err_msg": "module not support"}}
	if err := checkErrCode(mod, module, method); err != nil {
		return nil, err
	}

	result, ok := mod[method].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response has no %q result in module %q", method, module)
	}

	if err := checkErrCode(result, module, method); err != nil {
		return nil, err
	}

	return result, nil
}

func checkErrCode(obj map[string]any, module, method string) error {
	raw, ok := obj[errCodeKey]
	if !ok {
		return nil
	}
	code, ok := raw.(float64)
	if !ok || code == 0 {
		return nil
	}
	msg, _ := obj[errMsgKey].(string)
	return &DeviceError{Module: module, Method: method, Code: int(code), Message: msg}
}
