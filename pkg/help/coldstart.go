package help

const ColdstartYAML = `# seo-companion Quick Start

discovery_order:
  sitemap: "GET <site>/sitemap.xml (sitemap indexes are followed, up to max_sitemaps)"
  robots: "Sitemap: lines of <site>/robots.txt, when follow_robots is enabled"
  homepage: "GET <site>/ and keep same-site links"
  exhausted: "nothing found; add pages with import-urls"

commands:
  set_site: |
    seo-companion site set https://www.example.com

  discover: |
    seo-companion discover
    seo-companion discover https://www.example.com   # sets the site first

  manual_import: |
    printf '/\n/apartments\n/contact-us\n' | seo-companion import-urls
    seo-companion import-urls --file pages.txt

  review: |
    seo-companion pages list
    seo-companion pages list --format yaml --fields pageUrl,title,priority

  edit: |
    seo-companion pages edit --id <id> --title "About Us | Example" --priority 0.6
    seo-companion pages add /blog
    seo-companion pages delete <id>
    seo-companion pages clear --yes

  publish: |
    seo-companion sitemap --out public/sitemap.xml

  backup: |
    seo-companion export --out seo-pages.json
    seo-companion import seo-pages.json

  history: |
    seo-companion db runs
    seo-companion db run        # latest run's fetch attempts

configuration:
  file: "seo-companion.yaml (or --config path)"
  env_prefix: "SEO_ (e.g. SEO_USER_AGENT, SEO_FOLLOW_ROBOTS=true); .env is loaded if present"
  keys:
    - db_path
    - user_agent
    - http_timeout
    - rate_interval
    - max_sitemaps
    - follow_robots
    - recommendation_table
    - cache_dir
    - cache_ttl
    - log_level

registry_invariants:
  - "pageUrl is unique; discovery never overwrites an existing record"
  - "new pages are prepended, existing order is kept"
  - "editing a page refreshes lastModified"

error_behavior:
  - "Logs: JSON on stderr (--quiet for errors only)"
  - "Exit codes: 0=success (an exhausted discovery is still success), 1=usage error, 2=storage or I/O failure"
`
