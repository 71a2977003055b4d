package rpc

import (
	"fmt"
	"reflect"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/peteski22/dynparam/internal/parameter"
	pkg "github.com/peteski22/dynparam/pkg/contract/parameter"
)

const (
	fieldName        = "name"
	fieldScript      = "script"
	fieldDescription = "description"
	fieldUUID        = "uuid"
	fieldPresent     = "present"
	fieldValue       = "value"
)

// EncodeSpec converts spec into a request payload.
// The execution target is not sent: a worker always evaluates locally.
func EncodeSpec(spec pkg.Spec) *structpb.Struct {
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			fieldName:        structpb.NewStringValue(spec.Name),
			fieldScript:      structpb.NewStringValue(spec.Script),
			fieldDescription: structpb.NewStringValue(spec.Description),
			fieldUUID:        structpb.NewStringValue(spec.UUID),
		},
	}
}

// DecodeSpec converts a request payload into a Spec targeting local evaluation.
func DecodeSpec(req *structpb.Struct) (pkg.Spec, error) {
	fields := req.GetFields()

	name := fields[fieldName].GetStringValue()
	if name == "" {
		return pkg.Spec{}, fmt.Errorf("%w: missing %q", ErrMalformedPayload, fieldName)
	}

	return pkg.Spec{
		Name:        name,
		Script:      fields[fieldScript].GetStringValue(),
		Description: fields[fieldDescription].GetStringValue(),
		UUID:        fields[fieldUUID].GetStringValue(),
		Target:      pkg.TargetLocal,
	}, nil
}

// EncodeResult converts a script result into a response payload.
// A nil result is encoded as absent.
func EncodeResult(v any) *structpb.Struct {
	if v == nil {
		return &structpb.Struct{
			Fields: map[string]*structpb.Value{
				fieldPresent: structpb.NewBoolValue(false),
			},
		}
	}

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			fieldPresent: structpb.NewBoolValue(true),
			fieldValue:   toValue(v),
		},
	}
}

// DecodeResult converts a response payload back into a script result.
// Lists come back as []any holding strings and nils.
func DecodeResult(resp *structpb.Struct) any {
	fields := resp.GetFields()
	if !fields[fieldPresent].GetBoolValue() {
		return nil
	}
	return fields[fieldValue].AsInterface()
}

// toValue converts v into a structpb.Value. A slice or array of any element
// type becomes a list of element forms; anything else is sent as its form.
func toValue(v any) *structpb.Value {
	if _, ok := v.([]byte); !ok {
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			if rv.Kind() == reflect.Slice && rv.IsNil() {
				return structpb.NewListValue(&structpb.ListValue{})
			}
			list := &structpb.ListValue{Values: make([]*structpb.Value, rv.Len())}
			for i := range list.Values {
				list.Values[i] = formValue(rv.Index(i).Interface())
			}
			return structpb.NewListValue(list)
		}
	}
	return formValue(v)
}

// formValue sends v as its comparison string so the host sees exactly what a
// local evaluation would. Nulls, typed nils included, stay null.
func formValue(v any) *structpb.Value {
	form, ok := parameter.StringForm(v)
	if !ok {
		return structpb.NewNullValue()
	}
	return structpb.NewStringValue(form)
}
