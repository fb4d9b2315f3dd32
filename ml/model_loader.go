package ml

import (
	"errors"
)

// LoadModel loads a pre-trained model artifact of the given type.
func LoadModel(modelType, path string) (Model, error) {
	switch modelType {
	case "logistic":
		model := &LogisticModel{}
		if err := model.Load(path); err != nil {
			return nil, err
		}
		return model, nil
	default:
		return nil, errors.New("unsupported model type")
	}
}
