package fooddata

// FoodData Central /foods/search wire types. Only the fields the extractor
// reads are declared.

type searchResponse struct {
	Foods []foodCandidate `json:"foods"`
}

type foodCandidate struct {
	Description     string         `json:"description"`
	DataType        string         `json:"dataType"`
	ServingSize     float64        `json:"servingSize"`
	ServingSizeUnit string         `json:"servingSizeUnit"`
	FoodNutrients   []foodNutrient `json:"foodNutrients"`
}

type foodNutrient struct {
	NutrientNumber string  `json:"nutrientNumber"`
	NutrientName   string  `json:"nutrientName"`
	Value          float64 `json:"value"`
	UnitName       string  `json:"unitName"`
}

// standardized FDC nutrient numbers
const (
	nutrientEnergy        = "1008"
	nutrientProtein       = "1003"
	nutrientFat           = "1004"
	nutrientCarbohydrates = "1005"
	nutrientFiber         = "1079"
	nutrientSodium        = "1093"
	nutrientCalcium       = "1087"
	nutrientIron          = "1089"
)
