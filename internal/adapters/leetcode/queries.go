package leetcode

// Fixed GraphQL documents issued against the provider. Variables are always
// passed through the variables object, never interpolated into the query.
const (
	userRankingQuery = `
query userContestRankingInfo($username: String!) {
    userContestRanking(username: $username) {
        attendedContestsCount
        rating
    }
    userContestRankingHistory(username: $username) {
        attended
        problemsSolved
        totalProblems
        finishTimeInSeconds
        rating
    }
}`

	contestDetailQuery = `
query contestDetailPage($contestSlug: String!) {
    contestDetailPage(contestSlug: $contestSlug) {
        title
        titleSlug
        registerUserNum
    }
}`

	topContestsQuery = `
query {
    topTwoContests {
        title
        titleSlug
    }
}`

	pastContestsQuery = `
query {
    pastContests(pageNo: 1, numPerPage: 5) {
        data {
            title
            titleSlug
        }
    }
}`
)
