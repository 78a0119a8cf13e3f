package remote

// Operation documents sent to the graph catalog. Every document carries
// an operation name so logs and error reports can identify the call.
const (
	// Component operations.
	OpListComponents = `query ListComponents {
  components {
    id name description type owner labels
    links { name url }
    relationships { id type endNode { id name } }
  }
}`
	OpCreateComponent = `mutation CreateComponent($input: ComponentInput!) {
  createComponent(input: $input) {
    id name description type owner labels
    links { name url }
    relationships { id type endNode { id name } }
  }
}`
	OpUpdateComponent = `mutation UpdateComponent($id: ID!, $input: ComponentPatch!) {
  updateComponent(id: $id, input: $input) { id }
}`
	OpDeleteComponent = `mutation DeleteComponent($id: ID!) {
  deleteComponent(id: $id) { id }
}`
	OpComponentDependents = `query ComponentDependents($id: ID!) {
  dependents(id: $id) { id type startNode { id name } }
}`

	// Relationship operations.
	OpCreateRelationship = `mutation CreateRelationship($startId: ID!, $endId: ID!, $type: RelationType!) {
  createRelationship(startId: $startId, endId: $endId, type: $type) { id }
}`
	OpDeleteRelationship = `mutation DeleteRelationship($id: ID!) {
  deleteRelationship(id: $id) { id }
}`

	// Metric operations.
	OpListMetrics = `query ListMetrics {
  metrics { id name description type owner schedule labels }
}`
	OpCreateMetric = `mutation CreateMetric($input: MetricInput!) {
  createMetric(input: $input) { id name description type owner schedule labels }
}`
	OpUpdateMetric = `mutation UpdateMetric($id: ID!, $input: MetricPatch!) {
  updateMetric(id: $id, input: $input) { id }
}`
	OpDeleteMetric = `mutation DeleteMetric($id: ID!) {
  deleteMetric(id: $id) { id }
}`

	// Scorecard operations. Criteria travel inside the scorecard
	// mutation as create/update/delete operation sets.
	OpListScorecards = `query ListScorecards {
  scorecards {
    id name description owner labels
    criteria { id name description category weight metric { id name } }
  }
}`
	OpCreateScorecard = `mutation CreateScorecard($input: ScorecardInput!) {
  createScorecard(input: $input) {
    id name description owner labels
    criteria { id name description category weight metric { id name } }
  }
}`
	OpUpdateScorecard = `mutation UpdateScorecard($id: ID!, $input: ScorecardPatch!) {
  updateScorecard(id: $id, input: $input) { id }
}`
	OpDeleteScorecard = `mutation DeleteScorecard($id: ID!) {
  deleteScorecard(id: $id) { id }
}`
)
