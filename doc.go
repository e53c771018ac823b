// Package showroom implements the identity and account-lifecycle core of a
// small content/catalog site backend: credential hashing and verification,
// a time-driven account lifecycle policy, JWT session issuance, and the
// authenticator that ties them to a flat-file accounts collection.
//
// Account lifecycle:
//   - Accounts are provisioned with a well-known default password and
//     MustChangePassword set. LifecyclePolicy evaluates every login and every
//     identity lookup in a fixed order: grace-window expiry, inactive check,
//     credential check, rotation requirement. An account that keeps its
//     default credential past the grace window is disabled on its next access
//     attempt; no scheduled job is involved.
//   - The policy is pure over (account, now). Persisting an auto-disable
//     transition is the Authenticator's job, so the precedence order stays
//     auditable in one place.
//
// Sessions:
//   - Session tokens are stateless HS256 JWTs with a fixed validity window.
//     Verification failures are reported uniformly; revocation happens only
//     indirectly, by disabling the account, which privileged request paths
//     re-check against live store state.
package showroom
