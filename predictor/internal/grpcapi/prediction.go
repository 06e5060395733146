package grpcapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Krimson/babybloom/predictor/internal/advice"
	"github.com/Krimson/babybloom/predictor/internal/classifier"
	"github.com/Krimson/babybloom/predictor/internal/metrics"
)

const (
	ServiceName    = "babybloom.v1.PredictionService"
	classifyMethod = "/" + ServiceName + "/Classify"
)

// PredictionServer classifies a measurement record carried in a
// google.protobuf.Struct using the same flat field names as the JSON API.
type PredictionServer interface {
	Classify(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PredictionServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Classify",
			Handler:    classifyHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "babybloom/v1/prediction.proto",
}

func classifyHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PredictionServer).Classify(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: classifyMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PredictionServer).Classify(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// RegisterPredictionServer attaches srv to s.
func RegisterPredictionServer(s grpc.ServiceRegistrar, srv PredictionServer) {
	s.RegisterService(&serviceDesc, srv)
}

// ClassifyRemote calls PredictionService/Classify on cc.
func ClassifyRemote(ctx context.Context, cc grpc.ClientConnInterface, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := cc.Invoke(ctx, classifyMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// PredictionService is the PredictionServer backed by the classifier.
type PredictionService struct {
	logger *slog.Logger
}

func NewPredictionService(logger *slog.Logger) *PredictionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PredictionService{logger: logger}
}

func (s *PredictionService) Classify(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, strategyName, err := inputFromStruct(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	var strategy classifier.Strategy
	if strategyName != "" {
		strategy, err = classifier.Lookup(strategyName)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
	}

	m, err := in.Measurement()
	if err == nil {
		var res classifier.Result
		res, err = classifier.Classify(m, strategy)
		if err == nil {
			return s.respond(ctx, res)
		}
	}

	if ve, ok := classifier.AsValidationError(err); ok {
		metrics.RecordValidationFailure(ve.Field)
		return nil, status.Error(codes.InvalidArgument, ve.Error())
	}
	return nil, status.Error(codes.Internal, err.Error())
}

func (s *PredictionService) respond(ctx context.Context, res classifier.Result) (*structpb.Struct, error) {
	metrics.RecordPrediction(res.Strategy, res.IsPreterm, res.Rule.String(), res.Confidence)
	s.logger.DebugContext(ctx, "grpc prediction completed",
		"strategy", res.Strategy,
		"preterm", res.IsPreterm,
		"rule", res.Rule.String(),
	)

	a := advice.For(res.IsPreterm)
	out, err := structpb.NewStruct(map[string]interface{}{
		"estimatedGestationalAge": res.EstimatedGestationalAge,
		"isPreterm":               res.IsPreterm,
		"confidence":              res.Confidence,
		"strategy":                res.Strategy,
		"rule":                    res.Rule.String(),
		"label":                   res.Label(),
		"advice":                  a.Text(),
	})
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("failed to encode result: %v", err))
	}
	return out, nil
}

var numericFields = []string{
	"weight", "length", "headCircumference", "gestationalAge",
	"contractionCount", "contractionLength", "std", "entropy",
}

var errNotNumber = errors.New("must be a number")

func inputFromStruct(req *structpb.Struct) (classifier.Input, string, error) {
	var in classifier.Input
	fields := req.GetFields()

	values := make(map[string]*float64, len(numericFields))
	for _, name := range numericFields {
		v, ok := fields[name]
		if !ok {
			continue
		}
		num, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return in, "", fmt.Errorf("%s %w", name, errNotNumber)
		}
		f := num.NumberValue
		values[name] = &f
	}

	in.Weight = values["weight"]
	in.Length = values["length"]
	in.HeadCircumference = values["headCircumference"]
	in.GestationalAge = values["gestationalAge"]
	in.ContractionCount = values["contractionCount"]
	in.ContractionLength = values["contractionLength"]
	in.Std = values["std"]
	in.Entropy = values["entropy"]

	return in, fields["strategy"].GetStringValue(), nil
}

// LoggingInterceptor logs every unary call with its status code and latency.
func LoggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.InfoContext(ctx, "grpc call",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return resp, err
	}
}
