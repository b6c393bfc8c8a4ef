package domain

// Categorical ratings a criterion can hold.
const (
	RatingPending   = "pending"
	RatingMarginal  = "marginal"
	RatingAdequate  = "adequate"
	RatingGood      = "good"
	RatingExcellent = "excellent"
)

// ratingMultipliers maps a rating to the fraction of a criterion's maximum
// points it earns. Unknown or unset ratings contribute zero.
var ratingMultipliers = map[string]float64{
	RatingPending:   0.00,
	RatingMarginal:  0.15,
	RatingAdequate:  0.40,
	RatingGood:      0.70,
	RatingExcellent: 0.95,
}

func RatingMultiplier(rating string) float64 {
	return ratingMultipliers[rating]
}

func ValidRating(rating string) bool {
	_, ok := ratingMultipliers[rating]
	return ok
}

// Evaluation form types. One of each is provisioned per Supervision.
const (
	FormScopeDocument   = "scope_document"
	FormSRSSupervisor   = "srs_supervisor"
	FormSRSCommittee    = "srs_committee"
	FormSDDSupervisor   = "sdd_supervisor"
	FormSDDCommittee    = "sdd_committee"
	FormMidSupervisor   = "mid_supervisor"
	FormMidCommittee    = "mid_committee"
	FormFinalSupervisor = "final_supervisor"
	FormFinalCommittee  = "final_committee"
)

// Criterion pairs a rubric line item with its maximum points. The point
// allocations are institutional constants; grading depends on them being
// exactly these values.
type Criterion struct {
	Name      string
	MaxPoints float64
}

// FormSpec describes one evaluation form type: who fills it in and which
// weighted criteria it carries. The scope-document form is reviewed via
// approval flags rather than marks, so its criteria carry zero points.
type FormSpec struct {
	Type      string
	Evaluator string // RoleSupervisor or RoleCommitteeMember
	Criteria  []Criterion
}

var formSpecs = map[string]FormSpec{
	FormScopeDocument: {
		Type:      FormScopeDocument,
		Evaluator: RoleCommitteeMember,
		Criteria: []Criterion{
			{"problem_statement", 0},
			{"proposed_solution_validity", 0},
			{"tools_and_technologies_motivation", 0},
			{"modules", 0},
			{"task_management", 0},
			{"related_system_analysis", 0},
			{"document_format", 0},
		},
	},
	FormSRSSupervisor: {
		Type:      FormSRSSupervisor,
		Evaluator: RoleSupervisor,
		Criteria: []Criterion{
			{"regularity", 5},
			{"frs_mapped_to_problem", 4},
			{"nfrs_mapped_to_problem", 1},
			{"storyboarding", 3},
			{"according_to_requirement", 2},
			{"srs_template_followed", 2},
			{"writeup_correct", 3},
			{"student_participation", 5},
		},
	},
	FormSRSCommittee: {
		Type:      FormSRSCommittee,
		Evaluator: RoleCommitteeMember,
		Criteria: []Criterion{
			{"analysis_of_existing_systems", 0.5},
			{"problem_defined", 2.5},
			{"proposed_solution", 1.5},
			{"tools_technologies", 0.5},
			{"frs_mapped", 4},
			{"nfrs_mapped", 2},
			{"requirements_analysis", 3},
			{"mocks_defined", 2},
			{"srs_template_followed", 2},
			{"technical_writeup_correct", 3},
			{"domain_knowledge", 1},
			{"qa_ability", 2},
			{"presentation_attire", 1},
		},
	},
	FormSDDSupervisor: {
		Type:      FormSDDSupervisor,
		Evaluator: RoleSupervisor,
		Criteria: []Criterion{
			{"data_representation_diagram", 2},
			{"process_flow", 2},
			{"design_models", 4},
			{"algorithms_defined", 2},
			{"module_completion_status", 5},
			{"sdd_template_followed", 2},
			{"technical_writeup_correct", 3},
			{"regularity", 2.5},
			{"seminar_participation", 2.5},
		},
	},
	FormSDDCommittee: {
		Type:      FormSDDCommittee,
		Evaluator: RoleCommitteeMember,
		Criteria: []Criterion{
			{"data_representation_diagram", 2},
			{"process_flow", 2},
			{"design_models", 5},
			{"algorithms_defined", 2},
			{"module_completion_status", 5},
			{"sdd_template_followed", 2},
			{"technical_writeup_correct", 3},
			{"project_domain_knowledge", 1},
			{"qa_ability", 2},
			{"proper_attire", 1},
		},
	},
	FormMidSupervisor: {
		Type:      FormMidSupervisor,
		Evaluator: RoleSupervisor,
		Criteria: []Criterion{
			{"module_completion", 3},
			{"software_testing", 4},
			{"regularity", 3},
			{"template_followed", 2},
			{"project_domain_knowledge", 2.5},
			{"writeup_correct", 3},
		},
	},
	FormMidCommittee: {
		Type:      FormMidCommittee,
		Evaluator: RoleCommitteeMember,
		Criteria: []Criterion{
			{"module_completion", 4},
			{"software_testing", 4},
			{"qa_ability", 2.5},
			{"proper_attire", 0.5},
			{"template_followed", 1},
			{"writeup_correct", 3},
		},
	},
	FormFinalSupervisor: {
		Type:      FormFinalSupervisor,
		Evaluator: RoleSupervisor,
		Criteria: []Criterion{
			{"module_completion", 5},
			{"seminar_participation", 5},
			{"template_followed", 2},
			{"writeup_correct", 3},
		},
	},
	FormFinalCommittee: {
		Type:      FormFinalCommittee,
		Evaluator: RoleCommitteeMember,
		Criteria: []Criterion{
			{"module_completion", 4},
			{"software_testing", 4},
			{"qa_ability", 2.5},
			{"proper_attire", 0.5},
			{"template_followed", 1},
			{"writeup_correct", 3},
		},
	},
}

// FormTypes lists every form type in provisioning order.
var FormTypes = []string{
	FormScopeDocument,
	FormSRSSupervisor,
	FormSRSCommittee,
	FormSDDSupervisor,
	FormSDDCommittee,
	FormMidSupervisor,
	FormMidCommittee,
	FormFinalSupervisor,
	FormFinalCommittee,
}

func SpecForForm(formType string) (FormSpec, bool) {
	spec, ok := formSpecs[formType]
	return spec, ok
}

// MaxTotal is the highest achievable total for a form type
// (0.95 × sum of max points).
func (fs FormSpec) MaxTotal() float64 {
	var sum float64
	for _, c := range fs.Criteria {
		sum += c.MaxPoints
	}
	return ratingMultipliers[RatingExcellent] * sum
}

func (fs FormSpec) HasCriterion(name string) bool {
	for _, c := range fs.Criteria {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Total computes the weighted score for a set of criterion ratings against
// this form's table. Missing criteria rate as pending.
func (fs FormSpec) Total(ratings map[string]string) float64 {
	var total float64
	for _, c := range fs.Criteria {
		total += RatingMultiplier(ratings[c.Name]) * c.MaxPoints
	}
	return total
}
