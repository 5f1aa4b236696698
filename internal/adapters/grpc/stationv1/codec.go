package stationv1

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName は StationAssignmentService が利用するコンテンツサブタイプです（application/grpc+json）。
const CodecName = "json"

// Codec はメッセージを JSON で直列化する gRPC コーデックです。
type Codec struct{}

// Marshal は v を JSON に変換します。
func (Codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal は JSON を v に復元します。
func (Codec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Name はコーデック名を返します。
func (Codec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(Codec{})
}
