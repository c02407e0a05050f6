package services

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"mealplanner/utils/apperr"
)

// LabelDetector is the Rekognition call used to name food in a photo.
type LabelDetector interface {
	DetectLabels(ctx context.Context, in *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

type RekognitionService struct {
	client LabelDetector
}

func NewRekognitionService(client LabelDetector) *RekognitionService {
	return &RekognitionService{client: client}
}

func NewRekognitionServiceFromEnv(ctx context.Context, region string) (*RekognitionService, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return NewRekognitionService(rekognition.NewFromConfig(cfg)), nil
}

// decodeDataURI accepts "data:image/<type>;base64,<payload>" and returns the
// payload with its content type.
func decodeDataURI(uri string) ([]byte, string, error) {
	head, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(head, "data:image/") || !strings.HasSuffix(head, ";base64") {
		return nil, "", apperr.Validation("image", "image must be a base64 data URI")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return nil, "", apperr.Validation("image", "image is not valid base64")
	}
	return data, strings.TrimSuffix(strings.TrimPrefix(head, "data:"), ";base64"), nil
}

// RecognizeLabels returns the top labels for a base64 data URI image,
// most confident first.
func (r *RekognitionService) RecognizeLabels(ctx context.Context, dataURI string) ([]string, error) {
	data, _, err := decodeDataURI(dataURI)
	if err != nil {
		return nil, err
	}
	out, err := r.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: data},
		MaxLabels:     aws.Int32(5),
		MinConfidence: aws.Float32(75),
	})
	if err != nil {
		return nil, apperr.Upstream("rekognition", 0, err)
	}

	labels := make([]string, 0, len(out.Labels))
	for _, l := range out.Labels {
		if l.Name != nil {
			labels = append(labels, *l.Name)
		}
	}
	return labels, nil
}
